package mdstream

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8     bool
	softWrap bool
	bare     bool
}

// WithOSC8 enables or disables OSC 8 hyperlinks.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithSoftWrap enables hard breaking of words longer than the line width.
func WithSoftWrap(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.softWrap = enabled
	}
}

// WithBare disables all ANSI styling regardless of theme.
func WithBare(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.bare = enabled
	}
}
