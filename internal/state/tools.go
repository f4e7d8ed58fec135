package state

const (
	// DefaultBrushSize is the brush size in effect at startup.
	DefaultBrushSize = 2.0
	// DefaultColor is the colour in effect at startup.
	DefaultColor = "#000"
)

// BrushSizes are the preset sizes offered by the toolbar.
var BrushSizes = []float64{2, 5, 8, 11, 14, 25}

// Tools tracks the active tool, colour and brush size, and remembers the last
// size used with each tool.
type Tools struct {
	tool    Tool
	color   string
	size    float64
	initial float64
	memory  map[Tool]float64
}

// NewTools starts with the pen selected at the given size and colour.
func NewTools(size float64, color string) *Tools {
	if size <= 0 {
		size = DefaultBrushSize
	}
	if color == "" {
		color = DefaultColor
	}
	return &Tools{
		tool:    ToolPen,
		color:   color,
		size:    size,
		initial: size,
		memory:  map[Tool]float64{ToolPen: size},
	}
}

// SetTool switches tools and restores the size last used with the new tool.
// A tool never used before gets the startup size. Unknown tools are ignored.
func (t *Tools) SetTool(tool Tool) bool {
	if !tool.Valid() {
		return false
	}
	size, ok := t.memory[tool]
	if !ok {
		size = t.initial
		t.memory[tool] = size
	}
	t.tool = tool
	t.size = size
	return true
}

// SetBrushSize sets the current size and remembers it for the active tool.
func (t *Tools) SetBrushSize(size float64) bool {
	if size <= 0 {
		return false
	}
	t.size = size
	t.memory[t.tool] = size
	return true
}

// SetColor sets the colour used by every tool.
func (t *Tools) SetColor(color string) bool {
	if color == "" {
		return false
	}
	t.color = color
	return true
}

func (t *Tools) Tool() Tool         { return t.tool }
func (t *Tools) Color() string      { return t.color }
func (t *Tools) BrushSize() float64 { return t.size }

// Remembered returns the last size used with tool, if any.
func (t *Tools) Remembered(tool Tool) (float64, bool) {
	size, ok := t.memory[tool]
	return size, ok
}
