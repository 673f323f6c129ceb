// Package palette holds the raw SGR sequences the themes are built from.
package palette

// Text attributes.
const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Dim       = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
	Reverse   = "\x1b[7m"
	Strike    = "\x1b[9m"
)

// Foreground colors.
const (
	FgRed          = "\x1b[31m"
	FgGreen        = "\x1b[32m"
	FgYellow       = "\x1b[33m"
	FgBlue         = "\x1b[34m"
	FgMagenta      = "\x1b[35m"
	FgCyan         = "\x1b[36m"
	FgWhite        = "\x1b[37m"
	FgBrightGreen  = "\x1b[92m"
	FgBrightYellow = "\x1b[93m"
	FgBrightCyan   = "\x1b[96m"
	FgBrightWhite  = "\x1b[97m"
)

// Background colors.
const (
	BgGrey      = "\x1b[48;5;236m"
	BgLightGrey = "\x1b[48;5;254m"
)

// Palette maps semantic render slots to SGR color sequences. Attribute
// bits (bold for strong, underline for links) are layered on by the theme
// layer, not stored here.
type Palette struct {
	Text       string
	H1         string
	H2         string
	H3         string
	H4         string
	Emphasis   string
	Strong     string
	CodeInline string
	CodeBorder string
	Quote      string
	ListMarker string
	LinkText   string
	LinkURL    string
	TaskDone   string
	Rule       string
	StatusBar  string
}

// PaletteDark targets dark terminal backgrounds.
var PaletteDark = Palette{
	H1:         FgBrightWhite,
	H2:         FgBrightCyan,
	H3:         FgBrightYellow,
	CodeInline: BgGrey,
	CodeBorder: Dim,
	Quote:      Dim,
	ListMarker: FgCyan,
	LinkURL:    Dim,
	TaskDone:   FgGreen,
	Rule:       Dim,
	StatusBar:  Reverse,
}

// PaletteLight targets light terminal backgrounds.
var PaletteLight = Palette{
	H1:         FgBlue,
	H2:         FgCyan,
	H3:         FgYellow,
	CodeInline: BgLightGrey,
	CodeBorder: Dim,
	Quote:      Dim,
	ListMarker: FgBlue,
	LinkURL:    Dim,
	TaskDone:   FgGreen,
	Rule:       Dim,
	StatusBar:  Reverse,
}
