// Package pin drives the browser session through the multi-stage pin
// creation workflow. Each stage transition requires the previous stage's DOM
// marker; stages never retry and any failure ends only the current publish
// attempt.
package pin

import "fmt"

// State is the pin publisher's progression through the workflow. Transitions
// are strictly ordered; no state may be skipped.
type State int

const (
	StateLoggedOut State = iota
	StateLoggedIn
	StateCreateMenuOpen
	StatePinBuilderOpen
	StateImageUploaded
	StateDetailsFilled
	StateBoardSelected
	StatePublished
)

var stateNames = map[State]string{
	StateLoggedOut:      "logged_out",
	StateLoggedIn:       "logged_in",
	StateCreateMenuOpen: "create_menu_open",
	StatePinBuilderOpen: "pin_builder_open",
	StateImageUploaded:  "image_uploaded",
	StateDetailsFilled:  "details_filled",
	StateBoardSelected:  "board_selected",
	StatePublished:      "published",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// StageError wraps a failure inside one workflow stage with the state the
// publisher was trying to reach.
type StageError struct {
	Target State
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Target, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
