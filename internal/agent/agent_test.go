package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mortgage-agent/internal/config"
	"github.com/sells-group/mortgage-agent/internal/tools"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

func testAdvisor(t *testing.T, engine *mockEngineClient, dynamic bool) *Advisor {
	t.Helper()
	advisor, err := New(Options{
		Client: engine,
		Anthropic: config.AnthropicConfig{
			HaikuModel:  "claude-haiku-4-5-20251001",
			SonnetModel: "claude-sonnet-4-5-20250929",
			MaxTokens:   1024,
		},
		Agent: config.AgentConfig{HistoryWindow: 5, DynamicCapabilities: dynamic},
	})
	require.NoError(t, err)
	return advisor
}

func isDecisionRequest(req anthropic.MessageRequest) bool {
	return req.ForceTool == "capability_decision"
}

func isMainRequest(req anthropic.MessageRequest) bool {
	return req.ForceTool == ""
}

// mainRequestTools returns the tool names of the last primary-turn request
// the engine saw.
func mainRequestTools(engine *mockEngineClient) []string {
	var names []string
	for _, call := range engine.Calls {
		if call.Method != "CreateMessage" {
			continue
		}
		req := call.Arguments.Get(1).(anthropic.MessageRequest)
		if !isMainRequest(req) {
			continue
		}
		names = names[:0]
		for _, def := range req.Tools {
			names = append(names, def.Name)
		}
	}
	return names
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestNew_DefaultCapabilitySet(t *testing.T) {
	advisor := testAdvisor(t, &mockEngineClient{}, true)
	assert.Equal(t, []string{
		tools.NameSendLoanForm,
		tools.NameSearchKnowledge,
		tools.NameRecommendOfficers,
		tools.NameUpdateRequirements,
	}, advisor.Capabilities())
}

func TestSendMessage_OneShotFormConsumption(t *testing.T) {
	ctx := context.Background()
	engine := &mockEngineClient{}

	// Turn 1 decision: no changes.
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isDecisionRequest)).
		Return(toolUseResponse("d1", "capability_decision", `{"add": [], "remove": [], "reason": "steady"}`), nil).Once()
	// Turn 1 main: the model sends the form, then wraps up.
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isMainRequest)).
		Return(toolUseResponse("t1", tools.NameSendLoanForm, `{}`), nil).Once()
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isMainRequest)).
		Return(textResponse("The form is on its way."), nil).Once()

	// Turn 2 decision: tries to re-enable the consumed form.
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isDecisionRequest)).
		Return(toolUseResponse("d2", "capability_decision", `{"add": ["send_loan_application_form"], "remove": [], "reason": "user asked again"}`), nil).Once()
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isMainRequest)).
		Return(textResponse("You already have the form."), nil).Once()

	advisor := testAdvisor(t, engine, true)

	result, err := advisor.SendMessage(ctx, "I want to apply", false, nil)
	require.NoError(t, err)
	assert.True(t, result.Invoked(tools.NameSendLoanForm))

	// Evidence recorded: the capability is gone for the rest of the
	// session, even though the next decision proposes it.
	result, err = advisor.SendMessage(ctx, "send it again", false, nil)
	require.NoError(t, err)
	assert.False(t, result.Invoked(tools.NameSendLoanForm))
	assert.NotContains(t, advisor.Capabilities(), tools.NameSendLoanForm)
	assert.NotContains(t, mainRequestTools(engine), tools.NameSendLoanForm)
	engine.AssertExpectations(t)
}

func TestSendMessage_DecisionFailureDoesNotAbortTurn(t *testing.T) {
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isDecisionRequest)).
		Return(textResponse("no structured output"), nil)
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isMainRequest)).
		Return(textResponse("Main reply."), nil).Once()

	advisor := testAdvisor(t, engine, true)

	result, err := advisor.SendMessage(context.Background(), "hello", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "Main reply.", result.Message)
	assert.Len(t, advisor.Capabilities(), 4)
}

func TestSendMessage_DynamicCapabilitiesDisabled(t *testing.T) {
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isMainRequest)).
		Return(textResponse("Reply."), nil).Once()

	advisor := testAdvisor(t, engine, false)

	_, err := advisor.SendMessage(context.Background(), "hello", false, nil)
	require.NoError(t, err)

	for _, call := range engine.Calls {
		req := call.Arguments.Get(1).(anthropic.MessageRequest)
		assert.Empty(t, req.ForceTool)
	}
}

func TestReset_RestoresInitialState(t *testing.T) {
	ctx := context.Background()
	engine := &mockEngineClient{}
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isDecisionRequest)).
		Return(toolUseResponse("d1", "capability_decision", `{"add": [], "remove": [], "reason": "steady"}`), nil)
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isMainRequest)).
		Return(toolUseResponse("t1", tools.NameSendLoanForm, `{}`), nil).Once()
	engine.On("CreateMessage", mock.Anything, mock.MatchedBy(isMainRequest)).
		Return(textResponse("Sent."), nil)

	advisor := testAdvisor(t, engine, true)

	_, err := advisor.SendMessage(ctx, "apply", false, nil)
	require.NoError(t, err)
	_, err = advisor.Requirements().Set("loan_purpose", "purchase")
	require.NoError(t, err)

	// Consume the one-shot, then start over.
	_, err = advisor.SendMessage(ctx, "next", false, nil)
	require.NoError(t, err)
	assert.NotContains(t, advisor.Capabilities(), tools.NameSendLoanForm)

	advisor.Reset()

	assert.Contains(t, advisor.Capabilities(), tools.NameSendLoanForm)
	assert.Empty(t, advisor.Requirements().LoanPurpose)
}
