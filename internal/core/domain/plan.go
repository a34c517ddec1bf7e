package domain

// PlanResult is the uniform outcome of one planning request. On failure only
// Success, Message and Error are meaningful.
type PlanResult struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Error    string       `json:"error,omitempty"`
	Trip     *TripRequest `json:"trip,omitempty"`
	State    AgentState   `json:"state,omitempty"`
	Draft    string       `json:"draft,omitempty"`
	Final    string       `json:"final,omitempty"`
	Steps    []ReActStep  `json:"steps,omitempty"`
	Document []byte       `json:"document,omitempty"`
	FileName string       `json:"file_name,omitempty"`
	TraceID  TraceID      `json:"trace_id,omitempty"`
}
