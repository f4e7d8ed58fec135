package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"LocalNotes/internal/state"

	"github.com/gogpu/gg"
)

// PNG rasterises a single page. Pen strokes are drawn in their colour;
// eraser strokes paint the background back over earlier strokes.
func PNG(w io.Writer, page []state.Stroke, opts Options) error {
	opts = opts.withDefaults()
	width := int(math.Ceil(opts.Width * opts.Scale))
	height := int(math.Ceil(opts.Height * opts.Scale))

	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.ClearWithColor(ParseColor(opts.Background))
	dc.Scale(opts.Scale, opts.Scale)

	for i, st := range page {
		if st.Tool == state.ToolEraser {
			dc.SetHexColor(opts.Background)
		} else {
			dc.SetHexColor(st.Color)
		}
		dc.SetStroke(gg.DefaultStroke().
			WithWidth(st.Size).
			WithCap(gg.LineCapRound).
			WithJoin(gg.LineJoinRound))

		dc.MoveTo(st.Points[0].X, st.Points[0].Y)
		for _, pt := range st.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG renders page i of pages into the PNG file at path.
func WritePNG(path string, pages state.Pages, i int, opts Options) error {
	if i < 0 || i >= pages.Len() {
		return fmt.Errorf("page %d out of range (document has %d)", i+1, pages.Len())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PNG(f, pages.Page(i), opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
