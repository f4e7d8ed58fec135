// Package export renders documents to PDF and PNG.
package export

import (
	"image/color"

	"github.com/gogpu/gg"
)

const (
	// PageWidth and PageHeight are the drawing canvas size in canvas units.
	PageWidth  = 827.0
	PageHeight = 1169.0

	DefaultBackground = "#ffffff"
)

type Options struct {
	Width      float64
	Height     float64
	Background string
	// Scale multiplies the raster size of PNG output.
	Scale float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = PageWidth
	}
	if o.Height <= 0 {
		o.Height = PageHeight
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	return o
}

// ParseColor converts a CSS-style hex colour ("#000", "#ff8800") to RGBA.
// Unparseable values become opaque black.
func ParseColor(hex string) gg.RGBA {
	return gg.Hex(hex)
}

// Color is ParseColor for image/color consumers.
func Color(hex string) color.Color {
	return gg.Hex(hex).Color()
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	const digits = "0123456789abcdef"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{n.R, n.G, n.B} {
		out[1+2*i] = digits[v>>4]
		out[2+2*i] = digits[v&0x0f]
	}
	return string(out)
}

func rgb255(c gg.RGBA) (int, int, int) {
	return int(c.R*255 + 0.5), int(c.G*255 + 0.5), int(c.B*255 + 0.5)
}
