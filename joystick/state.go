package joystick

// State is a point-in-time snapshot of a device's full input state. Axes
// are normalized to [-1.0, 1.0]; buttons hold the raw value reported by
// the device (0 released, 1 pressed).
type State struct {
	Axes    []float64 `json:"axes"`
	Buttons []int     `json:"buttons"`
}

// NewState returns a zeroed state sized for the given capability counts.
// The sizes are fixed for the lifetime of a session; events addressing an
// index outside them are data errors, never a reason to grow.
func NewState(axes, buttons int) State {
	return State{
		Axes:    make([]float64, axes),
		Buttons: make([]int, buttons),
	}
}

// Apply folds one decoded event into the state. Axis records overwrite the
// indexed axis with the normalized value, button records store the raw
// value. Init replay records fold exactly like live ones; records matching
// neither kind are discarded.
func (s *State) Apply(e Event) error {
	switch {
	case e.IsAxis():
		if int(e.Number) >= len(s.Axes) {
			return &RangeError{Kind: "axis", Index: int(e.Number), Count: len(s.Axes)}
		}
		s.Axes[e.Number] = e.AxisValue()
	case e.IsButton():
		if int(e.Number) >= len(s.Buttons) {
			return &RangeError{Kind: "button", Index: int(e.Number), Count: len(s.Buttons)}
		}
		s.Buttons[e.Number] = int(e.Value)
	}
	return nil
}

// Clone returns a deep copy. Backends hand clones to callers so later
// folds never mutate a snapshot the caller already holds.
func (s State) Clone() State {
	c := State{}
	if s.Axes != nil {
		c.Axes = append([]float64(nil), s.Axes...)
	}
	if s.Buttons != nil {
		c.Buttons = append([]int(nil), s.Buttons...)
	}
	return c
}

// Equal reports whether two snapshots carry the same values.
func (s State) Equal(o State) bool {
	if len(s.Axes) != len(o.Axes) || len(s.Buttons) != len(o.Buttons) {
		return false
	}
	for i, v := range s.Axes {
		if o.Axes[i] != v {
			return false
		}
	}
	for i, v := range s.Buttons {
		if o.Buttons[i] != v {
			return false
		}
	}
	return true
}
