package tools

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/mortgage-agent/internal/kb"
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
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// --- KB Mock ---

type mockKB struct {
	mock.Mock
}

func (m *mockKB) Search(ctx context.Context, question string, limit int) ([]kb.Entry, error) {
	args := m.Called(ctx, question, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kb.Entry), args.Error(1)
}
