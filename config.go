package mdstream

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// StyleConfig is the file-based presentation configuration. Sizing fields
// (font size, line height, family) are carried for presentation layers that
// consume the tree outside a terminal; the terminal renderer uses Theme and
// Width, and the reveal pacing fields feed the Revealer.
type StyleConfig struct {
	FontSize   float64 `yaml:"font_size" default:"14"`
	LineHeight float64 `yaml:"line_height" default:"1.4"`
	Color      string  `yaml:"color"`
	Background string  `yaml:"background"`
	FontFamily string  `yaml:"font_family" default:"monospace"`

	Theme string `yaml:"theme" default:"default"`
	Width int    `yaml:"width" default:"80"`

	RevealInterval time.Duration `yaml:"reveal_interval" default:"2ms"`
	DrainWindow    time.Duration `yaml:"drain_window" default:"10s"`
}

// DefaultStyleConfig returns a StyleConfig with all defaults applied.
func DefaultStyleConfig() StyleConfig {
	var cfg StyleConfig
	_ = defaults.Set(&cfg)
	return cfg
}

// LoadStyleConfig reads a YAML style configuration. Missing fields take
// their defaults; a missing file is an error, an empty file is not.
func LoadStyleConfig(path string) (StyleConfig, error) {
	var cfg StyleConfig
	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("config: defaults: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *StyleConfig) validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative")
	}
	if c.RevealInterval < 0 {
		return fmt.Errorf("reveal_interval must not be negative")
	}
	if c.DrainWindow < 0 {
		return fmt.Errorf("drain_window must not be negative")
	}
	if c.Theme != "" {
		if _, ok := ThemeByName(c.Theme); !ok {
			return fmt.Errorf("unknown theme %q", c.Theme)
		}
	}
	return nil
}

// RevealOptions translates the pacing fields into Revealer options.
func (c *StyleConfig) RevealOptions() []RevealOption {
	var opts []RevealOption
	if c.RevealInterval > 0 {
		opts = append(opts, WithRevealInterval(c.RevealInterval))
	}
	if c.DrainWindow > 0 {
		opts = append(opts, WithDrainWindow(c.DrainWindow))
	}
	return opts
}
