package domain

// AgentState is a state of the reasoning loop.
type AgentState string

const (
	StateAwaitingModel    AgentState = "AWAITING_MODEL"
	StateDispatchingTools AgentState = "DISPATCHING_TOOLS"
	StateDone             AgentState = "DONE"
	StateExhausted        AgentState = "EXHAUSTED"
	StateFailed           AgentState = "FAILED"
)

// Terminal reports whether the loop stops in this state.
func (s AgentState) Terminal() bool {
	return s == StateDone || s == StateExhausted || s == StateFailed
}

// ExhaustedMessage is the final text when the iteration cap is reached.
const ExhaustedMessage = "Reasoning limit reached: the assistant could not finish the plan within the allowed number of steps."

// ToolObservation pairs an invocation with its result.
type ToolObservation struct {
	Call   ToolInvocation `json:"call"`
	Result string         `json:"result"`
}

// ReActStep represents one model request and the tools it triggered
type ReActStep struct {
	Iteration    int               `json:"iteration"`
	Thought      string            `json:"thought,omitempty"` // assistant text sent alongside tool calls
	Observations []ToolObservation `json:"observations,omitempty"`
	IsFinal      bool              `json:"is_final"`
}

// AgentRun wraps the loop outcome with its trace
type AgentRun struct {
	State      AgentState  `json:"state"`
	FinalText  string      `json:"final_text"`
	Iterations int         `json:"iterations"`
	Steps      []ReActStep `json:"steps"`
}
