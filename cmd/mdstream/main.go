package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	mdstream "github.com/nicwl/gptui-sub001"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	defaultChunkSize = 3
	defaultDelay     = 20 * time.Millisecond
)

func main() {
	var (
		simulate     bool
		simChunkSize int
		simDelay     time.Duration
		themeName    string
		widthFlag    int
		osc8Flag     string
		listThemes   bool
		configPath   string
		outPath      string
		bare         bool
		showVersion  bool
	)

	flags := pflag.NewFlagSet("mdstream", pflag.ExitOnError)
	flags.BoolVar(&simulate, "simulate", false, "Replay input as a paced stream with reveal pacing")
	flags.IntVar(&simChunkSize, "simulate-chunk", defaultChunkSize, "Runes per simulated stream chunk")
	flags.DurationVar(&simDelay, "simulate-delay", defaultDelay, "Delay per simulated stream chunk")
	flags.StringVarP(&themeName, "theme", "t", defaultThemeName, "Theme name")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&osc8Flag, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&configPath, "config", "c", "", "Style configuration file (YAML)")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&bare, "bare", "b", false, "Generate non-ANSI output")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "mdstream %s\n", moduleVersion())
		fmt.Fprintf(os.Stderr, "Usage: mdstream [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if showVersion {
		fmt.Println(moduleVersion())
		return
	}
	if listThemes {
		for _, name := range mdstream.AvailableThemes() {
			fmt.Fprintln(os.Stdout, name)
		}
		return
	}

	cfg := mdstream.DefaultStyleConfig()
	if configPath != "" {
		loaded, err := mdstream.LoadStyleConfig(normalizePath(configPath))
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if !flags.Changed("theme") && cfg.Theme != "" {
		themeName = cfg.Theme
	}
	if configPath != "" && !flags.Changed("width") && cfg.Width > 0 {
		widthFlag = cfg.Width
	}

	reader, closer, err := openInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	theme, ok := mdstream.ThemeByName(themeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n\n", themeName)
		for _, name := range mdstream.AvailableThemes() {
			fmt.Fprintln(os.Stderr, name)
		}
		os.Exit(2)
	}

	width := resolveWidth(widthFlag)
	osc8, err := resolveOSC8(osc8Flag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --osc8 %q: %v\n", osc8Flag, err)
		os.Exit(2)
	}
	options := []mdstream.RenderOption{
		mdstream.WithOSC8(osc8),
		mdstream.WithBare(bare),
	}

	if simulate {
		if err := mdstream.StreamSimulate(mdstream.StreamSimulateRequest{
			Reader:    reader,
			Writer:    writer,
			Width:     width,
			Theme:     theme,
			ChunkSize: simChunkSize,
			Delay:     simDelay,
			Interval:  cfg.RevealInterval,
			Drain:     cfg.DrainWindow,
			Options:   options,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	tree, err := mdstream.Parse(mdstream.ParseRequest{Reader: reader})
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}
	if err := mdstream.Render(mdstream.RenderRequest{
		Node:    tree,
		Writer:  writer,
		Width:   width,
		Theme:   theme,
		Options: options,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func moduleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return mdstream.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

type multiFileReader struct {
	paths  []string
	idx    int
	cur    *os.File
	closed bool
}

func (m *multiFileReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.paths) {
				m.closed = true
				return 0, io.EOF
			}
			f, err := os.Open(m.paths[m.idx])
			if err != nil {
				return 0, err
			}
			m.cur = f
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			_ = m.cur.Close()
			m.cur = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiFileReader) Close() error {
	m.closed = true
	if m.cur != nil {
		return m.cur.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	paths := make([]string, 0, len(args))
	for _, raw := range args {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil, fmt.Errorf("empty input argument")
		}
		paths = append(paths, normalizePath(raw))
	}
	m := &multiFileReader{paths: paths}
	return m, m, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
