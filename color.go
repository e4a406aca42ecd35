// Package gridterm hosts interactive, process-backed terminal sessions.
//
// A Session spawns a child command behind an OS pseudo-terminal, bridges the
// child's blocking output stream onto a poll-driven consumer, feeds the bytes
// through an ANSI/VT state machine into a renderable cell grid, and answers
// device queries (cursor position, size, colors, clipboard) back to the
// child. Rendering is left to the embedding application, which reads the
// grid through copy-out snapshots on its own cadence.
package gridterm

import "strconv"

// ColorType indicates how a color was specified.
type ColorType uint8

const (
	ColorTypeDefault   ColorType = iota // Terminal default fg/bg (SGR 39/49)
	ColorTypeStandard                   // Standard 16 ANSI colors (0-15)
	ColorTypePalette                    // 256-color palette (0-255)
	ColorTypeTrueColor                  // 24-bit RGB
)

// Color is a terminal color with its original specification preserved, so
// snapshots can round-trip it back to SGR form and OSC color queries can
// report the resolved RGB.
type Color struct {
	Type    ColorType
	Index   uint8 // For Standard (0-15) or Palette (0-255)
	R, G, B uint8 // For TrueColor, or resolved RGB for display
}

var (
	DefaultForeground = Color{Type: ColorTypeDefault, R: 212, G: 212, B: 212}
	DefaultBackground = Color{Type: ColorTypeDefault, R: 30, G: 30, B: 30}
)

// ansiColorsRGB holds the resolved RGB values for the standard 16 colors,
// following the common xterm defaults.
var ansiColorsRGB = [16]struct{ R, G, B uint8 }{
	{0, 0, 0},       // 0 black
	{205, 49, 49},   // 1 red
	{13, 188, 121},  // 2 green
	{229, 229, 16},  // 3 yellow
	{36, 114, 200},  // 4 blue
	{188, 63, 188},  // 5 magenta
	{17, 168, 205},  // 6 cyan
	{229, 229, 229}, // 7 white
	{102, 102, 102}, // 8 bright black
	{241, 76, 76},   // 9 bright red
	{35, 209, 139},  // 10 bright green
	{245, 245, 67},  // 11 bright yellow
	{59, 142, 234},  // 12 bright blue
	{214, 112, 214}, // 13 bright magenta
	{41, 184, 219},  // 14 bright cyan
	{255, 255, 255}, // 15 bright white
}

// StandardColor creates a standard 16-color ANSI color (index 0-15).
func StandardColor(index int) Color {
	if index < 0 || index > 15 {
		index = 7
	}
	rgb := ansiColorsRGB[index]
	return Color{Type: ColorTypeStandard, Index: uint8(index), R: rgb.R, G: rgb.G, B: rgb.B}
}

// PaletteColor creates a 256-color palette color (index 0-255).
func PaletteColor(index int) Color {
	if index < 0 || index > 255 {
		index = 7
	}
	r, g, b := palette256RGB(index)
	return Color{Type: ColorTypePalette, Index: uint8(index), R: r, G: g, B: b}
}

// TrueColor creates a 24-bit RGB color.
func TrueColor(r, g, b uint8) Color {
	return Color{Type: ColorTypeTrueColor, R: r, G: g, B: b}
}

// palette256RGB resolves a 256-color palette index to RGB: the 16 standard
// colors, a 6x6x6 color cube (16-231), and a 24-step grayscale ramp (232-255).
func palette256RGB(index int) (r, g, b uint8) {
	switch {
	case index < 16:
		c := ansiColorsRGB[index]
		return c.R, c.G, c.B
	case index < 232:
		i := index - 16
		cube := func(v int) uint8 {
			if v == 0 {
				return 0
			}
			return uint8(55 + v*40)
		}
		return cube(i / 36), cube((i / 6) % 6), cube(i % 6)
	default:
		v := uint8(8 + (index-232)*10)
		return v, v, v
	}
}

// IsDefault returns true if this is the default fg/bg color.
func (c Color) IsDefault() bool {
	return c.Type == ColorTypeDefault
}

// ToSGRCode returns the SGR parameter string selecting this color as the
// foreground (isFg) or background.
func (c Color) ToSGRCode(isFg bool) string {
	switch c.Type {
	case ColorTypeDefault:
		if isFg {
			return "39"
		}
		return "49"
	case ColorTypeStandard:
		idx := int(c.Index)
		if idx < 8 {
			if isFg {
				return strconv.Itoa(30 + idx)
			}
			return strconv.Itoa(40 + idx)
		}
		if isFg {
			return strconv.Itoa(90 + idx - 8)
		}
		return strconv.Itoa(100 + idx - 8)
	case ColorTypePalette:
		if isFg {
			return "38;5;" + strconv.Itoa(int(c.Index))
		}
		return "48;5;" + strconv.Itoa(int(c.Index))
	case ColorTypeTrueColor:
		prefix := "48;2;"
		if isFg {
			prefix = "38;2;"
		}
		return prefix + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
	}
	return ""
}
