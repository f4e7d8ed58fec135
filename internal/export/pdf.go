package export

import (
	"fmt"
	"io"
	"os"

	"LocalNotes/internal/state"

	"github.com/jung-kurt/gofpdf"
)

const a4WidthMM = 210.0

// PDF writes one A4 page per document page. The canvas is scaled so its
// width fills the page.
func PDF(w io.Writer, pages state.Pages, opts Options) error {
	opts = opts.withDefaults()
	scale := a4WidthMM / opts.Width
	bg := ParseColor(opts.Background)

	p := gofpdf.New("P", "mm", "A4", "")
	for _, page := range pages.All() {
		p.AddPage()
		p.SetLineCapStyle("round")
		p.SetLineJoinStyle("round")
		for _, st := range page {
			c := bg
			if st.Tool == state.ToolPen {
				c = ParseColor(st.Color)
			}
			r, g, b := rgb255(c)
			p.SetDrawColor(r, g, b)
			p.SetLineWidth(st.Size * scale)
			for i := 1; i < len(st.Points); i++ {
				p.Line(
					st.Points[i-1].X*scale, st.Points[i-1].Y*scale,
					st.Points[i].X*scale, st.Points[i].Y*scale,
				)
			}
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePDF renders pages into the PDF file at path.
func WritePDF(path string, pages state.Pages, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PDF(f, pages, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
