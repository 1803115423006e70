// Package palette parses the color strings accepted by markup attributes and
// configuration files.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColor is returned for strings that are neither a known name nor a hex triplet.
var ErrUnknownColor = errors.New("unknown color")

var named = map[string]color.RGBA{
	"black":   {0x00, 0x00, 0x00, 0xff},
	"silver":  {0xc0, 0xc0, 0xc0, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"maroon":  {0x80, 0x00, 0x00, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"fuchsia": {0xff, 0x00, 0xff, 0xff},
	"magenta": {0xff, 0x00, 0xff, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"lime":    {0x00, 0xff, 0x00, 0xff},
	"olive":   {0x80, 0x80, 0x00, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"navy":    {0x00, 0x00, 0x80, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"teal":    {0x00, 0x80, 0x80, 0xff},
	"aqua":    {0x00, 0xff, 0xff, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"orange":  {0xff, 0xa5, 0x00, 0xff},
}

// Parse converts a CSS-like color string (named color, #rgb or #rrggbb) into an opaque RGBA.
func Parse(value string) (color.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return color.RGBA{}, ErrUnknownColor
	}
	if c, ok := named[v]; ok {
		return c, nil
	}
	if !strings.HasPrefix(v, "#") {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
	}
	if len(v) == 4 {
		v = "#" + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2) + strings.Repeat(v[3:4], 2)
	}
	if len(v) != 7 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// MustParse is Parse for compile-time constants; it panics on invalid input.
func MustParse(value string) color.RGBA {
	c, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #rrggbb, dropping alpha.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
