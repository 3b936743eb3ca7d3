package domain

import "fmt"

// Status is the run status of an execution.
type Status uint8

const (
	StatusRunning  Status = iota // Still stepping
	StatusAccept                 // The machine entered its accept state
	StatusReject                 // The machine entered its reject state
	StatusTimeout                // The time budget ran out before a decision
	StatusSpaceout               // The tape outgrew the space budget
)

var statusNames = [...]string{
	StatusRunning:  "running",
	StatusAccept:   "accept",
	StatusReject:   "reject",
	StatusTimeout:  "timeout",
	StatusSpaceout: "spaceout",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// IsTerminal reports whether s is one of the four final outcomes.
func (s Status) IsTerminal() bool {
	return s != StatusRunning
}

// ParseStatus returns the Status named by name.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
