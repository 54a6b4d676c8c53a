package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/kb"
	"github.com/sells-group/mortgage-agent/internal/resilience"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

const kbResultLimit = 3

const kbFallbackPrompt = `As a mortgage knowledge base system, provide relevant professional knowledge for this query:

Query: %s

Return 2-3 concise knowledge base entries in this format:
[Knowledge Entry 1] Title: ...
Content: ...

[Knowledge Entry 2] Title: ...
Content: ...

Keep it professional and concise.`

// KBSearcher is the subset of the knowledge base store used by the search
// capability.
type KBSearcher interface {
	Search(ctx context.Context, question string, limit int) ([]kb.Entry, error)
}

// NewSearchKnowledge builds the knowledge-search capability. FTS hits are
// returned directly; when the index has nothing relevant (or no store is
// configured) the model synthesizes entries instead.
func NewSearchKnowledge(store KBSearcher, client anthropic.Client, model string) *Capability {
	return &Capability{
		Name: NameSearchKnowledge,
		Description: "Search the mortgage knowledge base for professional information " +
			"about US mortgage and real estate transactions.",
		Properties: map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The user's question about mortgage/real estate",
			},
		},
		Required: []string{"question"},
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in struct {
				Question string `json:"question"`
			}
			if err := json.Unmarshal(input, &in); err != nil {
				return "", eris.Wrap(err, "knowledge search: decode input")
			}
			if strings.TrimSpace(in.Question) == "" {
				return "", eris.New("knowledge search: empty question")
			}

			if store != nil {
				entries, err := store.Search(ctx, in.Question, kbResultLimit)
				if err != nil {
					zap.L().Warn("knowledge search: index query failed, falling back to model",
						zap.Error(err),
					)
				} else if len(entries) > 0 {
					return formatEntries(entries), nil
				}
			}

			return synthesizeEntries(ctx, client, model, in.Question)
		},
	}
}

func formatEntries(entries []kb.Entry) string {
	var b strings.Builder
	b.WriteString("[Knowledge Base Results]\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "[Knowledge Entry %d] Title: %s\nContent: %s\n\n", i+1, e.Title, e.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func synthesizeEntries(ctx context.Context, client anthropic.Client, model, question string) (string, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("anthropic", "kb_fallback")

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     model,
			MaxTokens: 1024,
			Messages:  []anthropic.Message{anthropic.UserText(fmt.Sprintf(kbFallbackPrompt, question))},
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "knowledge search: model fallback")
	}

	return "[Knowledge Base Results]\n" + resp.Text(), nil
}
