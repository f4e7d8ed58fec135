package ui

import (
	"image/color"

	"LocalNotes/internal/export"
	"LocalNotes/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget shows the active page of a board and turns mouse input into
// gestures on it.
type BoardWidget struct {
	widget.BaseWidget
	board      *state.Board
	readOnly   bool
	background color.Color
	pageSize   fyne.Size
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(board *state.Board, opts Options) *BoardWidget {
	b := &BoardWidget{
		board:      board,
		readOnly:   opts.ReadOnly,
		background: export.Color(opts.Background),
		pageSize:   fyne.NewSize(float32(opts.PageWidth), float32(opts.PageHeight)),
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if b.readOnly || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.board.PointerDown(float64(e.Position.X), float64(e.Position.Y))
	b.Refresh()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.readOnly || !b.board.Drawing() {
		return
	}
	b.board.PointerMove(float64(e.Position.X), float64(e.Position.Y))
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if b.readOnly || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.board.PointerUp()
	b.Refresh()
}

// DragEnd can arrive with or without a MouseUp; the board ignores the
// second release.
func (b *BoardWidget) DragEnd() {
	if b.readOnly {
		return
	}
	b.board.PointerUp()
	b.Refresh()
}

func (b *BoardWidget) MinSize() fyne.Size {
	b.ExtendBaseWidget(b)
	return b.pageSize
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(b.background)
	r.objects = r.build()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) build() []fyne.CanvasObject {
	b := r.board
	active := b.board.ActivePage()
	strokes := b.board.Page(active)
	if draft, page, ok := b.board.Draft(); ok && page == active {
		strokes = append(strokes, draft)
	}

	objects := []fyne.CanvasObject{r.background}
	for _, st := range strokes {
		c := b.background
		if st.Tool == state.ToolPen {
			c = export.Color(st.Color)
		}
		for i := 1; i < len(st.Points); i++ {
			segment := canvas.NewLine(c)
			segment.StrokeWidth = float32(st.Size)
			segment.Position1 = fyne.NewPos(float32(st.Points[i-1].X), float32(st.Points[i-1].Y))
			segment.Position2 = fyne.NewPos(float32(st.Points[i].X), float32(st.Points[i].Y))
			objects = append(objects, segment)
		}
	}
	return objects
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardWidgetRenderer) Refresh() {
	r.objects = r.build()
	r.background.Resize(r.board.Size())
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return r.board.pageSize
}

func (r *boardWidgetRenderer) Destroy() {}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}
