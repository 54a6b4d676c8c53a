package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mortgage-agent/internal/tools"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

func TestDecide_ParsesStructuredDecision(t *testing.T) {
	ctx := context.Background()
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.ForceTool == "capability_decision"
	})).Return(toolUseResponse("d1", "capability_decision",
		`{"add": ["recommend_loan_officers"], "remove": [], "reason": "requirements complete"}`,
	), nil)

	step := NewDecisionStep(engine, "claude-haiku-4-5-20251001", 5)
	d := step.Decide(ctx, []string{tools.NameSearchKnowledge}, nil, "recommend someone")

	require.NotNil(t, d)
	assert.Equal(t, []string{"recommend_loan_officers"}, d.Add)
	assert.Empty(t, d.Remove)
	assert.Equal(t, "requirements complete", d.Reason)
	engine.AssertExpectations(t)
}

func TestDecide_RequestFailureReturnsNil(t *testing.T) {
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	step := NewDecisionStep(engine, "m", 5)
	assert.Nil(t, step.Decide(context.Background(), nil, nil, "hi"))
}

func TestDecide_MalformedDecisionReturnsNil(t *testing.T) {
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.Anything).
		Return(toolUseResponse("d1", "capability_decision", `{"add": "not-an-array"}`), nil)

	step := NewDecisionStep(engine, "m", 5)
	assert.Nil(t, step.Decide(context.Background(), nil, nil, "hi"))
}

func TestDecide_NoToolUseReturnsNil(t *testing.T) {
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("I think nothing should change."), nil)

	step := NewDecisionStep(engine, "m", 5)
	assert.Nil(t, step.Decide(context.Background(), nil, nil, "hi"))
}

func TestDecide_EmptyDecisionReturnsNil(t *testing.T) {
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.Anything).
		Return(toolUseResponse("d1", "capability_decision", `{"add": [], "remove": [], "reason": "steady state"}`), nil)

	step := NewDecisionStep(engine, "m", 5)
	assert.Nil(t, step.Decide(context.Background(), nil, nil, "hi"))
}

func TestTranscript_WindowsHistory(t *testing.T) {
	step := NewDecisionStep(&mockEngineClient{}, "m", 2)

	history := []anthropic.Message{
		anthropic.UserText("first"),
		anthropic.AssistantText("second"),
		anthropic.UserText("third"),
	}

	got := step.transcript(history)
	assert.NotContains(t, got, "first")
	assert.Contains(t, got, "assistant: second")
	assert.Contains(t, got, "user: third")
}

func TestTranscript_Empty(t *testing.T) {
	step := NewDecisionStep(&mockEngineClient{}, "m", 5)
	assert.Equal(t, "(no prior messages)", step.transcript(nil))
}

func TestDecisionEmpty(t *testing.T) {
	assert.True(t, (*Decision)(nil).Empty())
	assert.True(t, (&Decision{Reason: "nothing"}).Empty())
	assert.False(t, (&Decision{Add: []string{"x"}}).Empty())
}
