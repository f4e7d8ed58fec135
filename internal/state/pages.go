package state

import (
	"fmt"
	"slices"
)

// Pages is an immutable snapshot of a document: an ordered list of pages,
// each an ordered list of committed strokes. Every update returns a new
// snapshot and leaves the receiver untouched, so a snapshot can be handed to
// other goroutines for reading.
type Pages struct {
	pages [][]Stroke
}

// NewPages returns a document with one empty page.
func NewPages() Pages {
	return Pages{pages: [][]Stroke{{}}}
}

// PagesOf builds a document from decoded page data. Every stroke is checked
// and sealed; the result is rejected if there are no pages.
func PagesOf(pages ...[]Stroke) (Pages, error) {
	if len(pages) == 0 {
		return Pages{}, fmt.Errorf("%w: no pages", ErrInvalidDocument)
	}
	out := make([][]Stroke, len(pages))
	for i, page := range pages {
		out[i] = make([]Stroke, len(page))
		for j, s := range page {
			if err := s.validate(); err != nil {
				return Pages{}, fmt.Errorf("%w: page %d stroke %d: %v", ErrInvalidDocument, i, j, err)
			}
			out[i][j] = s.seal()
		}
	}
	return Pages{pages: out}, nil
}

// Len returns the number of pages.
func (p Pages) Len() int { return len(p.pages) }

// Page returns a copy of the strokes of page i in z-order, or nil if i is
// out of range.
func (p Pages) Page(i int) []Stroke {
	if !p.valid(i) {
		return nil
	}
	return clonePage(p.pages[i])
}

// All returns a copy of every page in order.
func (p Pages) All() [][]Stroke {
	out := make([][]Stroke, len(p.pages))
	for i := range p.pages {
		out[i] = clonePage(p.pages[i])
	}
	return out
}

// StrokeCount returns the number of strokes across all pages.
func (p Pages) StrokeCount() int {
	n := 0
	for _, page := range p.pages {
		n += len(page)
	}
	return n
}

// Commit appends s to page i if it has at least two points and seals the
// caller's stroke so it can no longer be extended. Degenerate strokes are
// discarded. The returned flag reports whether a commit happened.
func (p Pages) Commit(i int, s *Stroke) (Pages, bool) {
	if s == nil || s.sealed || s.Degenerate() || !p.valid(i) {
		return p, false
	}
	sealed := s.seal()
	s.sealed = true
	return p.with(i, append(slices.Clone(p.pages[i]), sealed)), true
}

// AppendPage adds an empty page at the end and returns its index.
func (p Pages) AppendPage() (Pages, int) {
	next := make([][]Stroke, len(p.pages), len(p.pages)+1)
	copy(next, p.pages)
	return Pages{pages: append(next, []Stroke{})}, len(p.pages)
}

// RemoveLast removes the tail stroke of page i.
func (p Pages) RemoveLast(i int) (Pages, Stroke, bool) {
	if !p.valid(i) || len(p.pages[i]) == 0 {
		return p, Stroke{}, false
	}
	page := p.pages[i]
	last := page[len(page)-1].seal()
	return p.with(i, slices.Clone(page[:len(page)-1])), last, true
}

// Reappend puts a previously removed stroke back at the tail of page i.
func (p Pages) Reappend(i int, s Stroke) Pages {
	if !p.valid(i) {
		return p
	}
	return p.with(i, append(slices.Clone(p.pages[i]), s.seal()))
}

// Equal reports whether both documents hold the same pages and strokes.
func (p Pages) Equal(o Pages) bool {
	if len(p.pages) != len(o.pages) {
		return false
	}
	for i := range p.pages {
		if !slices.EqualFunc(p.pages[i], o.pages[i], Stroke.Equal) {
			return false
		}
	}
	return true
}

// clonePage copies the strokes and their points, so callers can never write
// into a snapshot.
func clonePage(page []Stroke) []Stroke {
	out := slices.Clone(page)
	for i := range out {
		out[i].Points = slices.Clone(out[i].Points)
	}
	return out
}

func (p Pages) valid(i int) bool {
	return i >= 0 && i < len(p.pages)
}

func (p Pages) with(i int, page []Stroke) Pages {
	next := slices.Clone(p.pages)
	next[i] = page
	return Pages{pages: next}
}
