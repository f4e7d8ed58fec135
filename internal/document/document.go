// Package document reads and writes drawings as human-readable JSON.
//
// A document is an array of pages; each page is an array of strokes:
//
//	[
//	  [
//	    {"tool": "pen", "points": [0, 0, 5, 5], "color": "#000", "size": 2}
//	  ],
//	  []
//	]
//
// Points are stored flat as x0, y0, x1, y1, ...
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"LocalNotes/internal/state"
)

// ErrMalformed is wrapped by every decoding failure.
var ErrMalformed = errors.New("malformed document")

type strokeRecord struct {
	Tool   string    `json:"tool"`
	Points []float64 `json:"points"`
	Color  string    `json:"color"`
	Size   float64   `json:"size"`
}

// Marshal encodes pages as indented JSON.
func Marshal(pages state.Pages) ([]byte, error) {
	all := pages.All()
	out := make([][]strokeRecord, len(all))
	for i, page := range all {
		out[i] = make([]strokeRecord, 0, len(page))
		for _, s := range page {
			out[i] = append(out[i], toRecord(s))
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Encode writes pages to w as indented JSON.
func Encode(w io.Writer, pages state.Pages) error {
	data, err := Marshal(pages)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unmarshal decodes and validates a document. On failure the returned error
// wraps ErrMalformed and no pages are returned.
//
// Strokes with a single point are dropped rather than rejected: they are
// what a tap without movement leaves behind in older files.
func Unmarshal(data []byte) (state.Pages, error) {
	if err := validateSchema(data); err != nil {
		return state.Pages{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var raw [][]strokeRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return state.Pages{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	pages := make([][]state.Stroke, len(raw))
	for i, page := range raw {
		pages[i] = make([]state.Stroke, 0, len(page))
		for j, rec := range page {
			s, err := fromRecord(rec)
			if err != nil {
				return state.Pages{}, fmt.Errorf("%w: page %d stroke %d: %v", ErrMalformed, i, j, err)
			}
			if s.Degenerate() {
				continue
			}
			pages[i] = append(pages[i], s)
		}
	}

	doc, err := state.PagesOf(pages...)
	if err != nil {
		return state.Pages{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

// Decode reads a whole document from r.
func Decode(r io.Reader) (state.Pages, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return state.Pages{}, fmt.Errorf("read document: %w", err)
	}
	return Unmarshal(data)
}

// Save writes pages to path, replacing any existing file only once the new
// content is fully written.
func Save(path string, pages state.Pages) error {
	data, err := Marshal(pages)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".localnotes-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the document at path.
func Load(path string) (state.Pages, error) {
	f, err := os.Open(path)
	if err != nil {
		return state.Pages{}, err
	}
	defer f.Close()
	return Decode(f)
}

// DefaultName returns the file name suggested for a new drawing, e.g.
// drawing_2024-05-01T10-20-30-000Z.json.
func DefaultName(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "drawing_" + stamp + ".json"
}

func toRecord(s state.Stroke) strokeRecord {
	flat := make([]float64, 0, 2*len(s.Points))
	for _, p := range s.Points {
		flat = append(flat, p.X, p.Y)
	}
	return strokeRecord{
		Tool:   string(s.Tool),
		Points: flat,
		Color:  s.Color,
		Size:   s.Size,
	}
}

func fromRecord(rec strokeRecord) (state.Stroke, error) {
	if len(rec.Points)%2 != 0 {
		return state.Stroke{}, fmt.Errorf("odd number of coordinates (%d)", len(rec.Points))
	}
	points := make([]state.Point, 0, len(rec.Points)/2)
	for i := 0; i < len(rec.Points); i += 2 {
		points = append(points, state.Point{X: rec.Points[i], Y: rec.Points[i+1]})
	}
	return state.Stroke{
		Tool:   state.Tool(rec.Tool),
		Points: points,
		Color:  rec.Color,
		Size:   rec.Size,
	}, nil
}
