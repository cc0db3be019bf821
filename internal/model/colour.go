package model

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is the set of swatches offered by the colour pickers.
var Palette = []string{
	"#000000",
	"#ffffff",
	"#ff6b6b",
	"#ffa94d",
	"#ffd93d",
	"#6bcb77",
	"#5b9bd5",
	"#1144bb",
	"#cc5de8",
	"#868e96",
}

// ParseHex parses a "#rgb" or "#rrggbb" colour string.
func ParseHex(s string) (colorful.Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	return c, nil
}

// IsDark reports whether a hex colour has a perceived luminance below the
// midpoint. Unparseable colours are treated as light.
func IsDark(hex string) bool {
	c, err := ParseHex(hex)
	if err != nil {
		return false
	}
	r, g, b := c.RGB255()
	luminance := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return luminance < 128
}

// ContrastText picks the text colour to pair with back. A text colour that
// is still plain black or white follows the background; any other choice
// is kept as is.
func ContrastText(text, back string) string {
	if !isBlackOrWhite(text) {
		return text
	}
	if IsDark(back) {
		return "#ffffff"
	}
	return "#000000"
}

func isBlackOrWhite(hex string) bool {
	switch strings.ToLower(strings.TrimSpace(hex)) {
	case "#000", "#000000", "#fff", "#ffffff":
		return true
	}
	return false
}
