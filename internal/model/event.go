package model

import "encoding/json"

// EventType enumerates turn events emitted while a response is produced.
type EventType string

const (
	EventChunk       EventType = "chunk"
	EventToolStart   EventType = "tool_start"
	EventToolSuccess EventType = "tool_success"
	EventToolError   EventType = "tool_error"
)

// Event is one element of a turn's ordered event sequence. Exactly the
// fields relevant to its Type are populated.
type Event struct {
	Type EventType

	// EventChunk
	Content      string
	IsFinal      bool
	FinalMessage *FinalMessage

	// Tool events
	ToolName  string
	CallID    string
	Arguments json.RawMessage
	Result    string
	Error     string
}

// FinalMessage is the aggregated assistant message attached to the terminal
// chunk of a streamed turn.
type FinalMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolInvocation records one capability call executed during a turn. The
// capability is identified by its registered name, never inferred from
// response text.
type ToolInvocation struct {
	Name   string
	CallID string
	Failed bool
}

// TurnResult is the uniform outcome of a turn, identical in shape whether
// the turn streamed or not.
type TurnResult struct {
	Message     string
	StopReason  string
	Invocations []ToolInvocation
}

// Invoked reports whether the named capability completed successfully
// during the turn.
func (t *TurnResult) Invoked(name string) bool {
	if t == nil {
		return false
	}
	for _, inv := range t.Invocations {
		if inv.Name == name && !inv.Failed {
			return true
		}
	}
	return false
}
