package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/resilience"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

// Decision is one turn's proposed capability changes. It is transient:
// consumed immediately by the controller, never persisted.
type Decision struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
	Reason string   `json:"reason"`
}

// Empty reports whether the decision proposes no changes.
func (d *Decision) Empty() bool {
	return d == nil || (len(d.Add) == 0 && len(d.Remove) == 0)
}

const decisionSystemPrompt = `You are a capability management assistant for a mortgage advisor agent. Analyze the conversation and decide which capabilities should be available.`

const decisionPromptTemplate = `Analyze the conversation and decide which capabilities should be available.

Available capabilities:
1. send_loan_application_form - Send the loan application form (can only be used once per session)
2. search_mortgage_knowledge - Query the mortgage knowledge base
3. recommend_loan_officers - Recommend loan officers (requires user info to be complete)
4. update_loan_requirements - Update the user's loan requirements

Currently enabled: %s

Recent conversation:
%s

User's latest message: %q

Rules:
- Only add recommend_loan_officers if the user explicitly requests recommendations OR if requirements are complete and the user is ready for the next step
- Remove send_loan_application_form after it has been called once
- Keep search_mortgage_knowledge and update_loan_requirements available under normal operation
- If no changes are needed, return empty lists

Record your decision with the capability_decision tool.`

// decisionTool is the forced structured-output shape of the decision step.
var decisionTool = anthropic.ToolDef{
	Name:        "capability_decision",
	Description: "Record the capability add/remove decision for this turn.",
	Properties: map[string]any{
		"add": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Capability names to enable",
		},
		"remove": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Capability names to disable",
		},
		"reason": map[string]any{
			"type":        "string",
			"description": "Why this decision was made",
		},
	},
	Required: []string{"add", "remove", "reason"},
}

// DecisionStep issues the auxiliary structured-output request that
// proposes capability changes for a turn. Any failure degrades to "no
// decision" and must never abort the primary turn.
type DecisionStep struct {
	client anthropic.Client
	model  string
	window int
}

// NewDecisionStep builds a decision step on the fast model tier. window
// bounds how many recent conversation messages are included as context.
func NewDecisionStep(client anthropic.Client, model string, window int) *DecisionStep {
	if window <= 0 {
		window = 5
	}
	return &DecisionStep{client: client, model: model, window: window}
}

// Decide returns the proposed capability changes for this turn, or nil
// when no change should be made (including every failure mode).
func (s *DecisionStep) Decide(ctx context.Context, currentNames []string, history []anthropic.Message, userMessage string) *Decision {
	prompt := fmt.Sprintf(decisionPromptTemplate,
		strings.Join(currentNames, ", "),
		s.transcript(history),
		userMessage,
	)
	messages := []anthropic.Message{anthropic.UserText(prompt)}

	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("anthropic", "capability_decision")

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     s.model,
			MaxTokens: 512,
			System:    []anthropic.SystemBlock{{Text: decisionSystemPrompt}},
			Messages:  messages,
			Tools:     []anthropic.ToolDef{decisionTool},
			ForceTool: decisionTool.Name,
		})
	})
	if err != nil {
		zap.L().Warn("decision step: request failed, capability set unchanged", zap.Error(err))
		return nil
	}

	uses := resp.ToolUses()
	if len(uses) == 0 {
		zap.L().Warn("decision step: no structured decision in response")
		return nil
	}

	var d Decision
	if err := json.Unmarshal(uses[0].Input, &d); err != nil {
		zap.L().Warn("decision step: malformed decision, capability set unchanged", zap.Error(err))
		return nil
	}

	resp.Usage.LogCost(s.model, "capability_decision")

	if d.Empty() {
		return nil
	}
	return &d
}

// transcript renders the last window messages of history as plain text.
// Tool blocks from the main conversation are dropped; the auxiliary
// request only needs the dialogue itself.
func (s *DecisionStep) transcript(history []anthropic.Message) string {
	start := 0
	if len(history) > s.window {
		start = len(history) - s.window
	}

	var b strings.Builder
	for _, m := range history[start:] {
		text := m.Text()
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", m.Role, text)
	}
	if b.Len() == 0 {
		return "(no prior messages)"
	}
	return strings.TrimRight(b.String(), "\n")
}
