package scoreboard

import "fmt"

// LookupError reports a register that was read before anything wrote it.
type LookupError struct {
	Name string
	Bank string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unregistered register %q in bank %s", e.Name, e.Bank)
}

// EmitError reports a command that cannot be rendered.
type EmitError struct {
	Command string
	Msg     string
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Msg)
}
