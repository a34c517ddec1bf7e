package domain

// MessageRole defines who authored a message
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// ToolInvocation is one function call requested by the model.
// Arguments is the raw JSON payload exactly as the model produced it.
type ToolInvocation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatMessage is a single entry of a conversation sent to the model.
// Assistant messages may carry ToolCalls; tool messages carry the ToolCallID they answer.
type ChatMessage struct {
	Role       MessageRole      `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []ToolInvocation `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

// SystemMessage builds a system prompt entry.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage builds a user entry.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// ToolResultMessage answers the invocation identified by callID.
func ToolResultMessage(callID, content string) ChatMessage {
	return ChatMessage{Role: RoleTool, Content: content, ToolCallID: callID}
}

// Conversation is the ordered message history of one reasoning run.
// It only grows; the run that created it owns it exclusively.
type Conversation struct {
	messages []ChatMessage
}

// NewConversation seeds a conversation with the given messages.
func NewConversation(seed ...ChatMessage) *Conversation {
	c := &Conversation{messages: make([]ChatMessage, 0, len(seed)+8)}
	c.messages = append(c.messages, seed...)
	return c
}

// Append adds messages at the end of the history.
func (c *Conversation) Append(msgs ...ChatMessage) {
	c.messages = append(c.messages, msgs...)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []ChatMessage {
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}
