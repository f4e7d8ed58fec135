package state

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func draw(b *Board, points ...Point) {
	b.PointerDown(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		b.PointerMove(p.X, p.Y)
	}
	b.PointerUp()
}

func TestGestureCommitsPointsInOrder(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		commit bool
	}{
		{name: "tap", points: []Point{{1, 1}}},
		{name: "two points", points: []Point{{0, 0}, {5, 5}}, commit: true},
		{name: "many points", points: []Point{{0, 0}, {1, 2}, {3, 4}, {5, 6}, {7, 8}}, commit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			draw(b, tt.points...)

			page := b.Document().Page(0)
			if !tt.commit {
				if len(page) != 0 {
					t.Fatalf("expected nothing committed, got %d strokes", len(page))
				}
				if b.CanUndo() {
					t.Fatalf("expected nothing to undo")
				}
				return
			}
			if len(page) != 1 {
				t.Fatalf("expected 1 stroke, got %d", len(page))
			}
			if !slices.Equal(page[0].Points, tt.points) {
				t.Fatalf("points = %v, want %v", page[0].Points, tt.points)
			}
		})
	}
}

func TestPointerEventsWhileIdleAreIgnored(t *testing.T) {
	b := New()
	rev := b.Revision()

	b.PointerMove(3, 3)
	b.PointerUp()
	b.PointerUp()
	if b.Drawing() {
		t.Fatalf("expected session to stay idle")
	}
	if b.Revision() != rev {
		t.Fatalf("expected no change, revision %d -> %d", rev, b.Revision())
	}

	draw(b, Point{0, 0}, Point{1, 1})
	b.PointerMove(9, 9)
	b.PointerUp()
	if got := b.Document().Page(0)[0].Points; len(got) != 2 {
		t.Fatalf("late move changed committed stroke: %v", got)
	}
}

func TestSecondPointerDownIsIgnored(t *testing.T) {
	b := New()
	b.PointerDown(0, 0)
	b.PointerDown(50, 50)
	b.PointerMove(1, 1)
	b.PointerUp()

	got := b.Document().Page(0)
	if len(got) != 1 || got[0].Points[0] != (Point{0, 0}) {
		t.Fatalf("expected a single stroke starting at the first down, got %+v", got)
	}
}

func TestDraftExposesInProgressStroke(t *testing.T) {
	b := New()
	if _, _, ok := b.Draft(); ok {
		t.Fatalf("expected no draft while idle")
	}
	b.PointerDown(0, 0)
	b.PointerMove(2, 2)
	draft, page, ok := b.Draft()
	if !ok || page != 0 || len(draft.Points) != 2 {
		t.Fatalf("Draft() = %+v, %d, %v", draft, page, ok)
	}
	draft.Points[0] = Point{99, 99}
	b.PointerUp()
	if got := b.Document().Page(0)[0].Points[0]; got != (Point{0, 0}) {
		t.Fatalf("draft mutation leaked into the document: %v", got)
	}
}

func TestUndoRedoRestoresPage(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{1, 1})
	draw(b, Point{2, 2}, Point{3, 3}, Point{4, 4})
	before := b.Document()

	if !b.Undo() {
		t.Fatalf("Undo() = false")
	}
	if got := len(b.Document().Page(0)); got != 1 {
		t.Fatalf("expected 1 stroke after undo, got %d", got)
	}
	if !b.CanRedo() {
		t.Fatalf("expected CanRedo after undo")
	}
	if !b.Redo() {
		t.Fatalf("Redo() = false")
	}
	if !b.Document().Equal(before) {
		t.Fatalf("undo+redo did not restore the page")
	}
	if b.Redo() {
		t.Fatalf("Redo() with empty redo stack = true")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	b := New()
	for i := 0; i < 11; i++ {
		x := float64(i)
		draw(b, Point{x, 0}, Point{x, 1})
	}
	if undo, _ := b.history.Depth(); undo != DefaultHistoryLimit {
		t.Fatalf("undo depth = %d, want %d", undo, DefaultHistoryLimit)
	}

	undone := 0
	for b.Undo() {
		undone++
	}
	if undone != DefaultHistoryLimit {
		t.Fatalf("undid %d strokes, want %d", undone, DefaultHistoryLimit)
	}
	page := b.Document().Page(0)
	if len(page) != 1 || page[0].Points[0] != (Point{0, 0}) {
		t.Fatalf("expected the first stroke to remain, got %+v", page)
	}
	if _, redo := b.history.Depth(); redo != DefaultHistoryLimit {
		t.Fatalf("redo depth = %d, want %d", redo, DefaultHistoryLimit)
	}
}

func TestCustomHistoryLimit(t *testing.T) {
	b := New(WithHistoryLimit(3))
	for i := 0; i < 5; i++ {
		draw(b, Point{0, 0}, Point{float64(i), 1})
	}
	if undo, _ := b.history.Depth(); undo != 3 {
		t.Fatalf("undo depth = %d, want 3", undo)
	}
}

func TestUndoScopedToActivePage(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{5, 5}) // A on page 0

	if idx := b.AppendPage(); idx != 1 {
		t.Fatalf("AppendPage() = %d, want 1", idx)
	}
	if b.ActivePage() != 0 {
		t.Fatalf("AppendPage changed the active page to %d", b.ActivePage())
	}
	if !b.SwitchPage(1) {
		t.Fatalf("SwitchPage(1) = false")
	}
	draw(b, Point{1, 1}, Point{2, 2}) // B on page 1

	if !b.Undo() {
		t.Fatalf("Undo() on page 1 = false")
	}
	if got := len(b.Document().Page(1)); got != 0 {
		t.Fatalf("expected page 1 empty after undo, got %d", got)
	}
	if _, redo := b.history.Depth(); redo != 1 {
		t.Fatalf("redo depth = %d, want 1", redo)
	}

	// Switching page clears redo; A's entry is then on top of undo.
	b.SwitchPage(0)
	if _, redo := b.history.Depth(); redo != 0 {
		t.Fatalf("expected redo cleared by page switch, depth %d", redo)
	}
	if !b.Undo() {
		t.Fatalf("Undo() on page 0 = false, A should be on top")
	}
	if got := len(b.Document().Page(0)); got != 0 {
		t.Fatalf("expected page 0 empty, got %d", got)
	}
}

func TestUndoBlockedByOtherPageOnTop(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{5, 5})
	b.AppendPage()
	b.SwitchPage(1)
	draw(b, Point{1, 1}, Point{2, 2})
	b.SwitchPage(0)

	if !b.CanUndo() {
		t.Fatalf("CanUndo() = false, page 0 has an entry in the stack")
	}
	if b.Undo() {
		t.Fatalf("Undo() = true, top entry belongs to page 1")
	}
	if got := len(b.Document().Page(0)); got != 1 {
		t.Fatalf("page 0 changed: %d strokes", got)
	}

	b.SwitchPage(1)
	if b.CanRedo() {
		t.Fatalf("CanRedo() = true with empty redo stack")
	}
	if !b.Undo() {
		t.Fatalf("Undo() on page 1 = false")
	}
}

func TestCanUndoOnPageWithoutHistory(t *testing.T) {
	b := New()
	b.AppendPage()
	draw(b, Point{0, 0}, Point{1, 1})
	b.SwitchPage(1)
	if b.CanUndo() {
		t.Fatalf("CanUndo() = true on page without entries")
	}
	if b.Undo() {
		t.Fatalf("Undo() = true on page without entries")
	}
}

func TestNewStrokeClearsRedo(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{1, 1})
	b.Undo()
	b.PointerDown(3, 3)
	if b.CanRedo() {
		t.Fatalf("expected pointer down to clear redo")
	}
	b.PointerUp()
	if b.Redo() {
		t.Fatalf("Redo() = true after a new stroke was begun")
	}
}

func TestSwitchPageNoOps(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{1, 1})
	b.Undo()
	if b.SwitchPage(0) {
		t.Fatalf("SwitchPage(active) = true")
	}
	if b.SwitchPage(5) || b.SwitchPage(-1) {
		t.Fatalf("SwitchPage(out of range) = true")
	}
	if !b.CanRedo() {
		t.Fatalf("no-op page switch cleared redo")
	}
}

func TestStrokeCommitsToPageOfPointerDown(t *testing.T) {
	b := New()
	b.AppendPage()
	b.PointerDown(0, 0)
	b.SwitchPage(1)
	b.PointerMove(1, 1)
	b.PointerUp()

	if got := len(b.Document().Page(0)); got != 1 {
		t.Fatalf("expected stroke on page 0, got %d", got)
	}
	if b.CanUndo() {
		t.Fatalf("CanUndo() = true on page 1")
	}
}

func TestLoadDocument(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{1, 1})
	b.AppendPage()
	b.SwitchPage(1)
	draw(b, Point{0, 0}, Point{1, 1})
	b.Undo()

	loaded, err := PagesOf([]Stroke{line(Point{7, 7}, Point{8, 8})}, nil, nil)
	if err != nil {
		t.Fatalf("PagesOf() error = %v", err)
	}
	if err := b.LoadDocument(loaded); err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if b.ActivePage() != 0 || b.PageCount() != 3 {
		t.Fatalf("active %d pages %d, want 0 and 3", b.ActivePage(), b.PageCount())
	}
	if undo, redo := b.history.Depth(); undo != 0 || redo != 0 {
		t.Fatalf("expected empty history, got %d/%d", undo, redo)
	}
	if b.Undo() {
		t.Fatalf("Undo() after load = true")
	}
}

func TestLoadEmptyDocumentLeavesBoardUntouched(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{1, 1})
	before := b.Snapshot()

	err := b.LoadDocument(Pages{})
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	after := b.Snapshot()
	if !after.Pages.Equal(before.Pages) || after.Revision != before.Revision || !b.CanUndo() {
		t.Fatalf("board changed after failed load")
	}
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	b := New()
	var snaps []Snapshot
	b.OnChange(func(s Snapshot) { snaps = append(snaps, s) })

	draw(b, Point{0, 0}, Point{1, 1})
	b.Undo()

	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots (down, up, undo), got %d", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Revision <= snaps[i-1].Revision {
			t.Fatalf("revisions not increasing: %d then %d", snaps[i-1].Revision, snaps[i].Revision)
		}
	}
	if got := len(snaps[1].Pages.Page(0)); got != 1 {
		t.Fatalf("commit snapshot has %d strokes, want 1", got)
	}
	if got := len(snaps[2].Pages.Page(0)); got != 0 {
		t.Fatalf("undo snapshot has %d strokes, want 0", got)
	}
	if !snaps[2].CanRedo || snaps[2].CanUndo {
		t.Fatalf("undo snapshot flags = undo %v redo %v", snaps[2].CanUndo, snaps[2].CanRedo)
	}
}

func TestReturnedStrokesAreCopies(t *testing.T) {
	b := New()
	draw(b, Point{0, 0}, Point{5, 5})
	before := b.Snapshot()
	want := []Point{{0, 0}, {5, 5}}

	got := b.Page(0)
	got[0].Points[0] = Point{99, 99}
	all := b.Document().All()
	all[0][0].Points[1] = Point{42, 42}

	if pts := b.Page(0)[0].Points; !slices.Equal(pts, want) {
		t.Fatalf("board changed through a returned stroke: %v", pts)
	}
	if pts := before.Pages.Page(0)[0].Points; !slices.Equal(pts, want) {
		t.Fatalf("earlier snapshot changed through a returned stroke: %v", pts)
	}

	b.Undo()
	b.Redo()
	if pts := b.Page(0)[0].Points; !slices.Equal(pts, want) {
		t.Fatalf("redo restored %v, want %v", pts, want)
	}
}

func ExampleBoard() {
	b := New()
	b.PointerDown(0, 0)
	b.PointerMove(5, 5)
	b.PointerUp()
	b.Undo()
	fmt.Println(len(b.Document().Page(0)), b.CanRedo())
	// Output: 0 true
}
