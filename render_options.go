package markterm

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8   bool
	noWrap bool
}

// WithOSC8 enables or disables OSC 8 hyperlinks.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithNoWrap switches overlong lines from word wrapping to truncation
// with a trailing ellipsis.
func WithNoWrap(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.noWrap = enabled
	}
}
