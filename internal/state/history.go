package state

// DefaultHistoryLimit is the number of entries kept on each of the undo and
// redo stacks.
const DefaultHistoryLimit = 10

// Entry records that Stroke was appended to the page at index Page.
type Entry struct {
	Page   int
	Stroke Stroke
}

// History holds the bounded undo and redo stacks. Both stacks are shared by
// all pages; only an entry on top of a stack whose page is the active page
// can be undone or redone.
type History struct {
	undo  []Entry
	redo  []Entry
	limit int
}

// NewHistory returns empty stacks capped at limit entries each. A limit of
// zero or less falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record pushes a committed stroke onto the undo stack.
func (h *History) Record(e Entry) {
	h.undo = push(h.undo, e, h.limit)
}

// Undo removes the most recent stroke from the active page. It does nothing
// when the undo stack is empty or its top entry belongs to another page.
func (h *History) Undo(pages Pages, active int) (Pages, bool) {
	e, ok := top(h.undo, active)
	if !ok {
		return pages, false
	}
	next, removed, ok := pages.RemoveLast(e.Page)
	if !ok {
		return pages, false
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = push(h.redo, Entry{Page: e.Page, Stroke: removed}, h.limit)
	return next, true
}

// Redo reappends the most recently undone stroke to the active page, under
// the same top-of-stack rule as Undo.
func (h *History) Redo(pages Pages, active int) (Pages, bool) {
	e, ok := top(h.redo, active)
	if !ok {
		return pages, false
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = push(h.undo, e, h.limit)
	return pages.Reappend(e.Page, e.Stroke), true
}

// CanUndo reports whether any undo entry belongs to the active page. This
// can be true while Undo is blocked by another page's entry on top.
func (h *History) CanUndo(active int) bool { return contains(h.undo, active) }

// CanRedo is the redo counterpart of CanUndo.
func (h *History) CanRedo(active int) bool { return contains(h.redo, active) }

// ClearRedo drops every pending redo entry, on all pages.
func (h *History) ClearRedo() { h.redo = nil }

// Reset empties both stacks.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

func push(stack []Entry, e Entry, limit int) []Entry {
	stack = append(stack, e)
	if len(stack) > limit {
		stack = stack[len(stack)-limit:]
	}
	return stack
}

func top(stack []Entry, page int) (Entry, bool) {
	if len(stack) == 0 {
		return Entry{}, false
	}
	e := stack[len(stack)-1]
	return e, e.Page == page
}

func contains(stack []Entry, page int) bool {
	for _, e := range stack {
		if e.Page == page {
			return true
		}
	}
	return false
}
