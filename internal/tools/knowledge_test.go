package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mortgage-agent/internal/kb"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

func questionInput(q string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"question": q})
	return raw
}

func TestSearchKnowledge_IndexHit(t *testing.T) {
	ctx := context.Background()
	store := &mockKB{}
	store.On("Search", ctx, "what is pmi", kbResultLimit).
		Return([]kb.Entry{
			{Title: "Private mortgage insurance (PMI)", Content: "PMI protects the lender."},
		}, nil)

	engine := &mockEngineClient{}
	cap := NewSearchKnowledge(store, engine, "claude-haiku-4-5-20251001")

	out, err := cap.Handler(ctx, questionInput("what is pmi"))
	require.NoError(t, err)
	assert.Contains(t, out, "[Knowledge Base Results]")
	assert.Contains(t, out, "[Knowledge Entry 1] Title: Private mortgage insurance (PMI)")
	store.AssertExpectations(t)
	engine.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSearchKnowledge_FallbackOnEmptyIndex(t *testing.T) {
	ctx := context.Background()
	store := &mockKB{}
	store.On("Search", ctx, "obscure question", kbResultLimit).
		Return([]kb.Entry{}, nil)

	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.Block{{Type: anthropic.BlockTypeText, Text: "[Knowledge Entry 1] Title: Synthesized\nContent: ..."}},
		}, nil)

	cap := NewSearchKnowledge(store, engine, "claude-haiku-4-5-20251001")

	out, err := cap.Handler(ctx, questionInput("obscure question"))
	require.NoError(t, err)
	assert.Contains(t, out, "[Knowledge Base Results]")
	assert.Contains(t, out, "Synthesized")
	engine.AssertExpectations(t)
}

func TestSearchKnowledge_FallbackOnIndexError(t *testing.T) {
	ctx := context.Background()
	store := &mockKB{}
	store.On("Search", ctx, "pmi", kbResultLimit).
		Return(nil, errors.New("disk gone"))

	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.Block{{Type: anthropic.BlockTypeText, Text: "model answer"}},
		}, nil)

	cap := NewSearchKnowledge(store, engine, "claude-haiku-4-5-20251001")

	out, err := cap.Handler(ctx, questionInput("pmi"))
	require.NoError(t, err)
	assert.Contains(t, out, "model answer")
}

func TestSearchKnowledge_NilStoreUsesModel(t *testing.T) {
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.Block{{Type: anthropic.BlockTypeText, Text: "model answer"}},
		}, nil)

	cap := NewSearchKnowledge(nil, engine, "claude-haiku-4-5-20251001")

	out, err := cap.Handler(context.Background(), questionInput("anything"))
	require.NoError(t, err)
	assert.Contains(t, out, "model answer")
}

func TestSearchKnowledge_EmptyQuestion(t *testing.T) {
	cap := NewSearchKnowledge(nil, &mockEngineClient{}, "m")
	_, err := cap.Handler(context.Background(), questionInput("   "))
	assert.Error(t, err)
}
