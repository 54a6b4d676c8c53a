package agent

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

// --- Engine Mock ---

type mockEngineClient struct {
	mock.Mock
}

func (m *mockEngineClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func (m *mockEngineClient) StreamMessage(ctx context.Context, req anthropic.MessageRequest, onDelta func(string)) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req, onDelta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	resp := args.Get(0).(*anthropic.MessageResponse)
	if onDelta != nil {
		// Replay the accumulated text as a single delta, the way a
		// one-chunk stream would arrive.
		if text := resp.Text(); text != "" {
			onDelta(text)
		}
	}
	return resp, args.Error(1)
}

// textResponse builds a plain end-of-turn response.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.Block{{Type: anthropic.BlockTypeText, Text: text}},
		StopReason: "end_turn",
	}
}

// toolUseResponse builds a response requesting a single tool invocation.
func toolUseResponse(id, name, input string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.Block{
			{Type: anthropic.BlockTypeToolUse, ID: id, Name: name, Input: []byte(input)},
		},
		StopReason: "tool_use",
	}
}
