package state

import (
	"errors"
	"slices"
)

// ErrInvalidDocument is returned when a page list violates the document
// invariants (no pages, unknown tool, degenerate stroke, non-positive size).
var ErrInvalidDocument = errors.New("invalid document")

// Tool selects how a stroke is composited by a renderer.
type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t == ToolPen || t == ToolEraser
}

type Point struct{ X, Y float64 }

// Stroke is one continuous pointer gesture. It can be extended until it is
// committed to a page, after which it is sealed.
type Stroke struct {
	Tool   Tool
	Points []Point
	Color  string
	Size   float64

	sealed bool
}

// BeginStroke starts a stroke holding a single point. The stroke is not on
// any page until it is committed.
func BeginStroke(tool Tool, p Point, color string, size float64) Stroke {
	return Stroke{
		Tool:   tool,
		Points: []Point{p},
		Color:  color,
		Size:   size,
	}
}

// Extend appends p to an in-progress stroke. It reports false and does
// nothing once the stroke has been committed.
func (s *Stroke) Extend(p Point) bool {
	if s.sealed {
		return false
	}
	s.Points = append(s.Points, p)
	return true
}

// Sealed reports whether the stroke has been committed.
func (s Stroke) Sealed() bool { return s.sealed }

// Degenerate reports whether the stroke has too few points to be committed.
func (s Stroke) Degenerate() bool { return len(s.Points) < 2 }

// Equal compares tool, colour, size and points. The sealed flag is ignored.
func (s Stroke) Equal(o Stroke) bool {
	return s.Tool == o.Tool &&
		s.Color == o.Color &&
		s.Size == o.Size &&
		slices.Equal(s.Points, o.Points)
}

// seal returns a committed copy that shares nothing with s.
func (s Stroke) seal() Stroke {
	s.Points = slices.Clone(s.Points)
	s.sealed = true
	return s
}

func (s Stroke) validate() error {
	switch {
	case !s.Tool.Valid():
		return errors.New("unknown tool " + string(s.Tool))
	case s.Degenerate():
		return errors.New("stroke needs at least two points")
	case s.Size <= 0:
		return errors.New("stroke size must be positive")
	}
	return nil
}
