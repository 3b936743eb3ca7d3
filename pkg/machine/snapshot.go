package machine

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Snapshot is a serializable copy of an execution's mutable state.
// It never carries the definition itself, only the name it is registered
// under, which the caller fills in.
type Snapshot struct {
	Machine   string        `json:"machine,omitempty"`
	State     int           `json:"state"`
	Head      int           `json:"head"`
	Tape      []int         `json:"tape"`
	Status    domain.Status `json:"status"`
	Clock     domain.Clock  `json:"clock"`
	HaltOrder HaltOrder     `json:"halt_order"`

	// Sealed holds an encrypted copy of the snapshot written by a store
	// middleware. A sealed snapshot cannot be restored until it is opened.
	Sealed []byte `json:"sealed,omitempty"`
}

// Snapshot captures the execution. The returned tape is a copy.
func (e *Execution) Snapshot() *Snapshot {
	return &Snapshot{
		State:     e.state,
		Head:      e.head,
		Tape:      e.Tape(),
		Status:    e.status,
		Clock:     e.clock,
		HaltOrder: e.order,
	}
}

// Restore rebuilds an execution of d from snap. The snapshot is checked
// against the definition and rejected with domain.ErrInvalidSnapshot if it
// could not have been produced by it.
func (d *Definition) Restore(snap *Snapshot) (*Execution, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", domain.ErrInvalidSnapshot)
	}
	if err := d.checkSnapshot(snap); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	return &Execution{
		def:    d,
		state:  snap.State,
		head:   snap.Head,
		tape:   append([]int(nil), snap.Tape...),
		status: snap.Status,
		clock:  snap.Clock,
		order:  snap.HaltOrder,
	}, nil
}

func (d *Definition) checkSnapshot(snap *Snapshot) error {
	if len(snap.Sealed) > 0 {
		return fmt.Errorf("snapshot is sealed")
	}
	if snap.State < 0 || snap.State >= len(d.states) {
		return fmt.Errorf("state %d out of range [0, %d)", snap.State, len(d.states))
	}
	if len(snap.Tape) == 0 {
		return fmt.Errorf("empty tape")
	}
	if snap.Head < 0 || snap.Head >= len(snap.Tape) {
		return fmt.Errorf("head %d outside tape of length %d", snap.Head, len(snap.Tape))
	}
	for i, cell := range snap.Tape {
		if cell < 0 || cell >= len(d.alphabet) {
			return fmt.Errorf("cell %d holds symbol %d outside alphabet of size %d", i, cell, len(d.alphabet))
		}
	}
	if snap.Clock.Space != len(snap.Tape) {
		return fmt.Errorf("clock space %d does not match tape length %d", snap.Clock.Space, len(snap.Tape))
	}
	if snap.Clock.Time < 0 {
		return fmt.Errorf("negative clock time %d", snap.Clock.Time)
	}
	if snap.Status > domain.StatusSpaceout {
		return fmt.Errorf("unknown status %d", snap.Status)
	}
	if snap.HaltOrder > HaltAfterMove {
		return fmt.Errorf("unknown halt order %d", snap.HaltOrder)
	}
	return nil
}
