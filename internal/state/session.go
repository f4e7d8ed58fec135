package state

// Session is the gesture state machine. It is Idle until a pointer goes
// down, Active while the pointer moves, and Idle again once the pointer is
// released. At most one stroke is in progress at a time.
type Session struct {
	active bool
	page   int
	stroke Stroke
}

// Down begins a stroke on page at p using the current tool settings. It
// reports false if a gesture is already active.
func (s *Session) Down(p Point, page int, tools *Tools) bool {
	if s.active {
		return false
	}
	s.active = true
	s.page = page
	s.stroke = BeginStroke(tools.Tool(), p, tools.Color(), tools.BrushSize())
	return true
}

// Move extends the in-progress stroke. Moves while Idle are ignored.
func (s *Session) Move(p Point) bool {
	if !s.active {
		return false
	}
	return s.stroke.Extend(p)
}

// Up ends the gesture and hands over the finished stroke together with the
// page it was started on. It reports false while Idle.
func (s *Session) Up() (int, *Stroke, bool) {
	if !s.active {
		return 0, nil, false
	}
	finished := s.stroke
	page := s.page
	s.Reset()
	return page, &finished, true
}

// Active reports whether a gesture is in progress.
func (s *Session) Active() bool { return s.active }

// Draft returns a copy of the in-progress stroke for live preview.
func (s *Session) Draft() (Stroke, int, bool) {
	if !s.active {
		return Stroke{}, 0, false
	}
	d := s.stroke
	d.Points = append([]Point(nil), s.stroke.Points...)
	return d, s.page, true
}

// Reset drops any in-progress stroke and returns to Idle.
func (s *Session) Reset() {
	*s = Session{}
}
