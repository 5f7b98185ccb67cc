package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported by CompileUnit.
const (
	PhaseParse    = "parse"
	PhaseGenerate = "generate"
	PhaseWrite    = "write"
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events emitted during CompileUnit.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) start(name string) {
	if o != nil {
		o(PhaseEvent{Name: name, Status: PhaseStart})
	}
}

func (o PhaseObserver) end(name string, began time.Time, err error) {
	if o != nil {
		o(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(began), Err: err})
	}
}
