package runtime

import "fmt"

// InputError is returned by Navigate when the current step rejects an answer.
// The state does not advance; hosts send Prompt and wait for another answer.
type InputError struct {
	NodeID string
	Input  string
	Prompt string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid answer %q for node %s: %v", e.Input, e.NodeID, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// UnhandledSearchError is returned when input is fed to a search step.
// Search steps are completed by the host running the search, not by answers.
type UnhandledSearchError struct {
	NodeID string
}

func (e *UnhandledSearchError) Error() string {
	return fmt.Sprintf("node %s is waiting for the search to run; it does not take input", e.NodeID)
}
