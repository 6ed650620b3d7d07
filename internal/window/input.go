package window

import "github.com/go-gl/mathgl/mgl32"

// InputState turns raw per-frame samples from a backend into the queries the Window contract
// exposes: edge-triggered keys and buttons, consumable scroll, and focus-aware cursor capture.
// A backend calls BeginFrame, then feeds the samples, once per Update.
type InputState struct {
	keys     map[Key]bool
	prevKeys map[Key]bool
	buttons  [3]bool
	prevBtns [3]bool
	delta    mgl32.Vec2
	scroll   float32
	captured bool
	focused  bool
}

// NewInputState returns a state with the window focused and the cursor free.
func NewInputState() *InputState {
	return &InputState{
		keys:     make(map[Key]bool),
		prevKeys: make(map[Key]bool),
		focused:  true,
	}
}

// BeginFrame moves the current samples into the previous-frame slot and clears the mouse delta.
func (s *InputState) BeginFrame() {
	for k, v := range s.keys {
		s.prevKeys[k] = v
	}
	s.prevBtns = s.buttons
	s.delta = mgl32.Vec2{}
}

// SetKey records whether k is held this frame.
func (s *InputState) SetKey(k Key, down bool) {
	s.keys[k] = down
}

// SetButton records whether b is held this frame. Unknown buttons are ignored.
func (s *InputState) SetButton(b MouseButton, down bool) {
	if b < 0 || int(b) >= len(s.buttons) {
		return
	}
	s.buttons[b] = down
}

// AddMouseDelta accumulates pointer movement for this frame.
func (s *InputState) AddMouseDelta(d mgl32.Vec2) {
	s.delta = s.delta.Add(d)
}

// AddScroll accumulates wheel movement until Scroll consumes it.
func (s *InputState) AddScroll(v float32) {
	s.scroll += v
}

// SetFocused records window focus. Losing focus while captured releases the cursor; the return
// value reports whether that happened so the backend can show the OS cursor again.
func (s *InputState) SetFocused(focused bool) (released bool) {
	s.focused = focused
	if !focused && s.captured {
		s.captured = false
		return true
	}
	return false
}

// Focused reports the last recorded focus state.
func (s *InputState) Focused() bool { return s.focused }

// SetCaptured records cursor capture. Capture is refused while unfocused.
func (s *InputState) SetCaptured(captured bool) bool {
	if captured && !s.focused {
		return false
	}
	s.captured = captured
	return true
}

// Captured reports whether the cursor is captured.
func (s *InputState) Captured() bool { return s.captured }

// KeyDown reports whether k is held.
func (s *InputState) KeyDown(k Key) bool { return s.keys[k] }

// KeyPressed reports whether k went down this frame.
func (s *InputState) KeyPressed(k Key) bool { return s.keys[k] && !s.prevKeys[k] }

// ButtonDown reports whether b is held.
func (s *InputState) ButtonDown(b MouseButton) bool {
	if b < 0 || int(b) >= len(s.buttons) {
		return false
	}
	return s.buttons[b]
}

// ButtonPressed reports whether b went down this frame.
func (s *InputState) ButtonPressed(b MouseButton) bool {
	if b < 0 || int(b) >= len(s.buttons) {
		return false
	}
	return s.buttons[b] && !s.prevBtns[b]
}

// MouseDelta returns this frame's pointer movement. It is zero while the cursor is free so
// look controls do not react to a visible pointer.
func (s *InputState) MouseDelta() mgl32.Vec2 {
	if !s.captured {
		return mgl32.Vec2{}
	}
	return s.delta
}

// Scroll returns the accumulated wheel movement and resets it.
func (s *InputState) Scroll() float32 {
	v := s.scroll
	s.scroll = 0
	return v
}
