package markterm

// RenderRequest configures Render.
type RenderRequest struct {
	// Source is the complete markdown document.
	Source []byte
	// Width is the terminal width; the usable content width is derived
	// via ContentWidth. Zero selects the 80-column default.
	Width int
	// Theme styles the output; nil selects DefaultTheme.
	Theme   Theme
	Options []RenderOption
}

const defaultWidth = 80

// Render validates, tokenizes and lays out a markdown document into the
// ordered display line sequence a sink consumes. The returned lines are
// immutable; their visible width never exceeds the derived content width.
func Render(req RenderRequest) ([]Line, error) {
	var cfg renderConfig
	for _, opt := range req.Options {
		if opt != nil {
			opt(&cfg)
		}
	}
	theme := req.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	if err := ValidateInput(req.Source); err != nil {
		return nil, err
	}
	events, err := Tokenize(stripFrontMatter(req.Source))
	if err != nil {
		return nil, err
	}
	width := req.Width
	if width <= 0 {
		width = defaultWidth
	}
	return layoutEvents(events, ContentWidth(width), theme, cfg)
}
