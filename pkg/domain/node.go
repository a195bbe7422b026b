package domain

// NodeType constants define the control flow behavior.
const (
	// NodeTypeText sends content and continues immediately (soft step).
	NodeTypeText = "text"
	// NodeTypeQuestion sends content and halts waiting for the user's answer (hard step).
	NodeTypeQuestion = "question"
	// NodeTypeSearch hands the accumulated request to the host and ends the conversation.
	NodeTypeSearch = "search"
)

// Node represents one step of the conversation.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"` // "text", "question", "search"

	// Content is the prompt sent to the user when the step is entered.
	Content []byte `json:"content" yaml:"content"`

	// RetryContent is sent instead of Content when the answer was rejected.
	// If empty, Content is sent again.
	RetryContent []byte `json:"retry_content,omitempty" yaml:"retry_content,omitempty"`

	// Metadata allows for extensible key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Transitions defines the possible paths from this node.
	Transitions []Transition `json:"transitions" yaml:"transitions"`

	// Input Configuration (Optional)
	InputType    string   `json:"input_type,omitempty" yaml:"input_type,omitempty"`
	InputOptions []string `json:"input_options,omitempty" yaml:"input_options,omitempty"`

	// SaveTo names the context key that receives the validated answer.
	SaveTo string `json:"save_to,omitempty" yaml:"save_to,omitempty"`

	// After names a context key whose value the answer must not precede
	// (dates and times only). e.g. return_date after departure_date.
	After string `json:"after,omitempty" yaml:"after,omitempty"`

	// OnSignal maps global signals (e.g. "cancel") to target nodes.
	OnSignal map[string]string `json:"on_signal,omitempty" yaml:"on_signal,omitempty"`
}

// IsQuestion reports whether the step halts for user input.
func (n *Node) IsQuestion() bool {
	return n.Type == NodeTypeQuestion || n.InputType != ""
}
