package domain

import "time"

// ActionRequest represents a side-effect that the engine requests the host to perform.
type ActionRequest struct {
	Type    string // e.g., "RENDER_CONTENT", "RUN_SEARCH"
	Payload any    // The data needed to perform the action
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to send content to the chat.
	// Payload: string (the content)
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRequestInput requests the host to collect an answer from the user.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"

	// ActionRunSearch requests the host to run the ticket search.
	// Payload: SearchRequest
	ActionRunSearch = "RUN_SEARCH"
)

// InputType defines the kind of answer a step expects.
type InputType string

const (
	InputText     InputType = "text"
	InputStation  InputType = "station"
	InputDate     InputType = "date"
	InputConfirm  InputType = "confirm"
	InputPrice    InputType = "price"
	InputDuration InputType = "duration"
	InputTime     InputType = "time"
)

// InputRequest describes the constraints and type of input needed.
type InputRequest struct {
	Type    InputType     `json:"type"`
	Options []string      `json:"options,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"`
}
