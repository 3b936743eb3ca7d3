package domain

// Limits bounds an execution. A zero value means "no limit".
type Limits struct {
	// Time is the step budget. The step that brings the clock to Time halts
	// the run with StatusTimeout instead of applying its transition.
	Time int `json:"time_limit,omitempty" yaml:"time_limit,omitempty"`

	// Space is the tape length budget. Growing the tape to Space cells halts
	// the run with StatusSpaceout.
	Space int `json:"space_limit,omitempty" yaml:"space_limit,omitempty"`
}

// Unbounded reports whether neither limit is set.
func (l Limits) Unbounded() bool {
	return l.Time <= 0 && l.Space <= 0
}

// Clock tracks the resources consumed by an execution.
type Clock struct {
	Time       int `json:"time"`
	TimeLimit  int `json:"time_limit,omitempty"`
	Space      int `json:"space"`
	SpaceLimit int `json:"space_limit,omitempty"`
}

// NewClock returns a clock at time zero for a tape of the given length.
// Negative limits are treated as unset.
func NewClock(limits Limits, space int) Clock {
	return Clock{
		TimeLimit:  max(limits.Time, 0),
		Space:      space,
		SpaceLimit: max(limits.Space, 0),
	}
}

// Limits returns the bounds the clock checks against.
func (c Clock) Limits() Limits {
	return Limits{Time: c.TimeLimit, Space: c.SpaceLimit}
}

// TimeExhausted reports whether the step budget has been reached.
func (c Clock) TimeExhausted() bool {
	return c.TimeLimit > 0 && c.Time >= c.TimeLimit
}

// SpaceExhausted reports whether the tape budget has been reached.
func (c Clock) SpaceExhausted() bool {
	return c.SpaceLimit > 0 && c.Space >= c.SpaceLimit
}
