// Package palette defines terminal color palettes as raw ANSI SGR prefixes.
// Attribute constants and 24-bit foreground sequences are combined by the
// theme layer into renderer styles.
package palette

import "strconv"

// SGR attribute prefixes.
const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Faint     = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
)

// fg returns a 24-bit foreground color sequence.
func fg(r, g, b uint8) string {
	return "\x1b[38;2;" +
		strconv.Itoa(int(r)) + ";" +
		strconv.Itoa(int(g)) + ";" +
		strconv.Itoa(int(b)) + "m"
}

// Palette holds the per-role color prefixes of one theme. Empty fields
// inherit the terminal default.
type Palette struct {
	Text           string
	H1             string
	H2             string
	H3             string
	H4             string
	H5             string
	H6             string
	Emphasis       string
	Strong         string
	EmphasisStrong string
	CodeInline     string
	CodeBlock      string
	Quote          string
	ListMarker     string
	LinkText       string
	LinkURL        string
	Rule           string
}

// Default leans on the terminal's own colors and only uses the basic
// 16-color range, so it is safe on any terminal.
var Default = Palette{
	H1:         "\x1b[36m",
	H2:         "\x1b[36m",
	H3:         "\x1b[36m",
	H4:         "\x1b[36m",
	H5:         "\x1b[36m",
	H6:         "\x1b[36m",
	CodeInline: "\x1b[33m",
	CodeBlock:  "\x1b[33m",
	Quote:      "\x1b[32m",
	ListMarker: "\x1b[35m",
	LinkText:   "\x1b[34m",
	LinkURL:    "\x1b[90m",
	Rule:       "\x1b[90m",
}

var Dracula = Palette{
	Text:           fg(248, 248, 242),
	H1:             fg(189, 147, 249),
	H2:             fg(189, 147, 249),
	H3:             fg(139, 233, 253),
	H4:             fg(139, 233, 253),
	H5:             fg(98, 114, 164),
	H6:             fg(98, 114, 164),
	Emphasis:       fg(241, 250, 140),
	Strong:         fg(255, 184, 108),
	EmphasisStrong: fg(255, 121, 198),
	CodeInline:     fg(80, 250, 123),
	CodeBlock:      fg(80, 250, 123),
	Quote:          fg(98, 114, 164),
	ListMarker:     fg(255, 121, 198),
	LinkText:       fg(139, 233, 253),
	LinkURL:        fg(98, 114, 164),
	Rule:           fg(68, 71, 90),
}

var Nord = Palette{
	Text:           fg(216, 222, 233),
	H1:             fg(136, 192, 208),
	H2:             fg(136, 192, 208),
	H3:             fg(129, 161, 193),
	H4:             fg(129, 161, 193),
	H5:             fg(94, 129, 172),
	H6:             fg(94, 129, 172),
	Emphasis:       fg(235, 203, 139),
	Strong:         fg(208, 135, 112),
	EmphasisStrong: fg(180, 142, 173),
	CodeInline:     fg(163, 190, 140),
	CodeBlock:      fg(163, 190, 140),
	Quote:          fg(76, 86, 106),
	ListMarker:     fg(180, 142, 173),
	LinkText:       fg(136, 192, 208),
	LinkURL:        fg(76, 86, 106),
	Rule:           fg(67, 76, 94),
}

var Gruvbox = Palette{
	Text:           fg(235, 219, 178),
	H1:             fg(250, 189, 47),
	H2:             fg(250, 189, 47),
	H3:             fg(184, 187, 38),
	H4:             fg(184, 187, 38),
	H5:             fg(131, 165, 152),
	H6:             fg(131, 165, 152),
	Emphasis:       fg(211, 134, 155),
	Strong:         fg(254, 128, 25),
	EmphasisStrong: fg(251, 73, 52),
	CodeInline:     fg(142, 192, 124),
	CodeBlock:      fg(142, 192, 124),
	Quote:          fg(146, 131, 116),
	ListMarker:     fg(211, 134, 155),
	LinkText:       fg(131, 165, 152),
	LinkURL:        fg(146, 131, 116),
	Rule:           fg(102, 92, 84),
}

var SolarizedDark = Palette{
	Text:           fg(131, 148, 150),
	H1:             fg(38, 139, 210),
	H2:             fg(38, 139, 210),
	H3:             fg(42, 161, 152),
	H4:             fg(42, 161, 152),
	H5:             fg(101, 123, 131),
	H6:             fg(101, 123, 131),
	Emphasis:       fg(181, 137, 0),
	Strong:         fg(203, 75, 22),
	EmphasisStrong: fg(211, 54, 130),
	CodeInline:     fg(133, 153, 0),
	CodeBlock:      fg(133, 153, 0),
	Quote:          fg(88, 110, 117),
	ListMarker:     fg(211, 54, 130),
	LinkText:       fg(38, 139, 210),
	LinkURL:        fg(88, 110, 117),
	Rule:           fg(7, 54, 66),
}

var GithubDark = Palette{
	Text:           fg(201, 209, 217),
	H1:             fg(88, 166, 255),
	H2:             fg(88, 166, 255),
	H3:             fg(121, 192, 255),
	H4:             fg(121, 192, 255),
	H5:             fg(139, 148, 158),
	H6:             fg(139, 148, 158),
	Emphasis:       fg(255, 223, 93),
	Strong:         fg(255, 166, 87),
	EmphasisStrong: fg(255, 123, 114),
	CodeInline:     fg(126, 231, 135),
	CodeBlock:      fg(126, 231, 135),
	Quote:          fg(139, 148, 158),
	ListMarker:     fg(247, 120, 186),
	LinkText:       fg(88, 166, 255),
	LinkURL:        fg(110, 118, 129),
	Rule:           fg(48, 54, 61),
}

var TokyoNight = Palette{
	Text:           fg(192, 202, 245),
	H1:             fg(122, 162, 247),
	H2:             fg(122, 162, 247),
	H3:             fg(125, 207, 255),
	H4:             fg(125, 207, 255),
	H5:             fg(86, 95, 137),
	H6:             fg(86, 95, 137),
	Emphasis:       fg(224, 175, 104),
	Strong:         fg(255, 158, 100),
	EmphasisStrong: fg(247, 118, 142),
	CodeInline:     fg(158, 206, 106),
	CodeBlock:      fg(158, 206, 106),
	Quote:          fg(86, 95, 137),
	ListMarker:     fg(187, 154, 247),
	LinkText:       fg(125, 207, 255),
	LinkURL:        fg(86, 95, 137),
	Rule:           fg(59, 66, 97),
}
