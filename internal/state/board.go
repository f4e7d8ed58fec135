package state

import (
	"fmt"
	"log/slog"
)

// Snapshot is an immutable view of a Board after a change.
type Snapshot struct {
	Pages     Pages
	Active    int
	Revision  uint64
	CanUndo   bool
	CanRedo   bool
	Tool      Tool
	Color     string
	BrushSize float64
}

// Board owns the document, the active page, the gesture session, the
// history and the tool state. It is the only way to mutate any of them.
//
// A Board is not safe for concurrent use: all calls must come from the same
// event loop. Snapshots passed to observers may be read from any goroutine.
type Board struct {
	pages    Pages
	active   int
	session  Session
	history  *History
	tools    *Tools
	revision uint64

	observers []func(Snapshot)
	logger    *slog.Logger
}

type Option func(*boardOptions)

type boardOptions struct {
	historyLimit int
	brushSize    float64
	color        string
	logger       *slog.Logger
}

// WithHistoryLimit caps the undo and redo stacks.
func WithHistoryLimit(n int) Option {
	return func(o *boardOptions) { o.historyLimit = n }
}

// WithBrushSize sets the startup brush size.
func WithBrushSize(size float64) Option {
	return func(o *boardOptions) { o.brushSize = size }
}

// WithColor sets the startup colour.
func WithColor(color string) Option {
	return func(o *boardOptions) { o.color = color }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *boardOptions) { o.logger = l }
}

// New returns a board with a single empty page.
func New(opts ...Option) *Board {
	o := boardOptions{
		historyLimit: DefaultHistoryLimit,
		brushSize:    DefaultBrushSize,
		color:        DefaultColor,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Board{
		pages:   NewPages(),
		history: NewHistory(o.historyLimit),
		tools:   NewTools(o.brushSize, o.color),
		logger:  o.logger,
	}
}

// OnChange registers fn to be called after every state change.
func (b *Board) OnChange(fn func(Snapshot)) {
	if fn != nil {
		b.observers = append(b.observers, fn)
	}
}

// PointerDown starts a gesture on the active page. Beginning a stroke is a
// forward action, so all pending redo entries are dropped.
func (b *Board) PointerDown(x, y float64) {
	if !b.session.Down(Point{X: x, Y: y}, b.active, b.tools) {
		b.logger.Debug("pointer down ignored, gesture already active")
		return
	}
	b.history.ClearRedo()
	b.changed()
}

// PointerMove extends the in-progress stroke; it is ignored while Idle.
func (b *Board) PointerMove(x, y float64) {
	b.session.Move(Point{X: x, Y: y})
}

// PointerUp commits the in-progress stroke to the page it was started on
// and records it for undo. Degenerate strokes are dropped.
func (b *Board) PointerUp() {
	page, stroke, ok := b.session.Up()
	if !ok {
		return
	}
	next, committed := b.pages.Commit(page, stroke)
	if !committed {
		b.logger.Debug("degenerate stroke discarded", "page", page, "points", len(stroke.Points))
		return
	}
	b.pages = next
	b.history.Record(Entry{Page: page, Stroke: *stroke})
	b.logger.Debug("stroke committed", "page", page, "tool", stroke.Tool, "points", len(stroke.Points))
	b.changed()
}

func (b *Board) SetTool(tool Tool) {
	if b.tools.SetTool(tool) {
		b.changed()
	}
}

func (b *Board) SetColor(color string) {
	if b.tools.SetColor(color) {
		b.changed()
	}
}

func (b *Board) SetBrushSize(size float64) {
	if b.tools.SetBrushSize(size) {
		b.changed()
	}
}

// AppendPage adds an empty page and returns its index. The active page does
// not change.
func (b *Board) AppendPage() int {
	next, idx := b.pages.AppendPage()
	b.pages = next
	b.changed()
	return idx
}

// SwitchPage makes page i active. Changing page clears all pending redo.
// Out of range indexes and switching to the active page are no-ops.
func (b *Board) SwitchPage(i int) bool {
	if i < 0 || i >= b.pages.Len() || i == b.active {
		return false
	}
	b.active = i
	b.history.ClearRedo()
	b.changed()
	return true
}

// Undo reverts the most recent stroke if it belongs to the active page.
func (b *Board) Undo() bool {
	next, ok := b.history.Undo(b.pages, b.active)
	if !ok {
		return false
	}
	b.pages = next
	b.changed()
	return true
}

// Redo reapplies the most recently undone stroke if it belongs to the
// active page.
func (b *Board) Redo() bool {
	next, ok := b.history.Redo(b.pages, b.active)
	if !ok {
		return false
	}
	b.pages = next
	b.changed()
	return true
}

func (b *Board) CanUndo() bool { return b.history.CanUndo(b.active) }
func (b *Board) CanRedo() bool { return b.history.CanRedo(b.active) }

// Document returns the current pages.
func (b *Board) Document() Pages { return b.pages }

// Page returns a copy of the strokes on page i, or nil when i is out of range.
func (b *Board) Page(i int) []Stroke { return b.pages.Page(i) }

// LoadDocument replaces the whole document. The active page goes back to 0
// and both history stacks are emptied, since loaded strokes cannot be
// undone. An empty document is rejected and leaves the board untouched.
func (b *Board) LoadDocument(pages Pages) error {
	if pages.Len() == 0 {
		return fmt.Errorf("%w: no pages", ErrInvalidDocument)
	}
	b.pages = pages
	b.active = 0
	b.session.Reset()
	b.history.Reset()
	b.logger.Info("document loaded", "pages", pages.Len(), "strokes", pages.StrokeCount())
	b.changed()
	return nil
}

// Draft returns the in-progress stroke and its page, for live preview.
func (b *Board) Draft() (Stroke, int, bool) { return b.session.Draft() }

func (b *Board) Drawing() bool      { return b.session.Active() }
func (b *Board) ActivePage() int    { return b.active }
func (b *Board) PageCount() int     { return b.pages.Len() }
func (b *Board) Revision() uint64   { return b.revision }
func (b *Board) Tool() Tool         { return b.tools.Tool() }
func (b *Board) Color() string      { return b.tools.Color() }
func (b *Board) BrushSize() float64 { return b.tools.BrushSize() }

// Snapshot returns the current state.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Pages:     b.pages,
		Active:    b.active,
		Revision:  b.revision,
		CanUndo:   b.CanUndo(),
		CanRedo:   b.CanRedo(),
		Tool:      b.tools.Tool(),
		Color:     b.tools.Color(),
		BrushSize: b.tools.BrushSize(),
	}
}

func (b *Board) changed() {
	b.revision++
	if len(b.observers) == 0 {
		return
	}
	snap := b.Snapshot()
	for _, fn := range b.observers {
		fn(snap)
	}
}
