package server

import (
	"encoding/json"

	"github.com/sells-group/mortgage-agent/internal/model"
)

// Inbound is a client → server envelope.
type Inbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Stream  *bool  `json:"stream,omitempty"` // nil means stream
}

// Inbound envelope types.
const (
	inboundMessage = "message"
	inboundReset   = "reset"
)

// Outbound envelope variants. One struct per wire shape; the Type field
// discriminates.

type chunkEnvelope struct {
	Type         string              `json:"type"`
	Content      string              `json:"content"`
	IsFinal      bool                `json:"is_final"`
	FinalMessage *model.FinalMessage `json:"final_message,omitempty"`
}

type toolStartEnvelope struct {
	Type      string          `json:"type"`
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"arguments"`
	CallID    string          `json:"call_id"`
}

type toolSuccessEnvelope struct {
	Type     string `json:"type"`
	ToolName string `json:"tool_name"`
	Result   string `json:"result"`
	CallID   string `json:"call_id"`
}

type toolErrorEnvelope struct {
	Type     string `json:"type"`
	ToolName string `json:"tool_name"`
	Error    string `json:"error"`
	CallID   string `json:"call_id"`
}

type messageEnvelope struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type okEnvelope struct {
	Type   string `json:"type"`
	Action string `json:"action"`
}

type errorEnvelope struct {
	Type   string `json:"type"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// envelopeFor maps a turn event to its outbound wire shape.
func envelopeFor(e model.Event) any {
	switch e.Type {
	case model.EventToolStart:
		args := e.Arguments
		if len(args) == 0 {
			args = json.RawMessage(`{}`)
		}
		return toolStartEnvelope{
			Type:      "tool_start",
			ToolName:  e.ToolName,
			Arguments: args,
			CallID:    e.CallID,
		}
	case model.EventToolSuccess:
		return toolSuccessEnvelope{
			Type:     "tool_success",
			ToolName: e.ToolName,
			Result:   e.Result,
			CallID:   e.CallID,
		}
	case model.EventToolError:
		return toolErrorEnvelope{
			Type:     "tool_error",
			ToolName: e.ToolName,
			Error:    e.Error,
			CallID:   e.CallID,
		}
	default:
		return chunkEnvelope{
			Type:         "chunk",
			Content:      e.Content,
			IsFinal:      e.IsFinal,
			FinalMessage: e.FinalMessage,
		}
	}
}
