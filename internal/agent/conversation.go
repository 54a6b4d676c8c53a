package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/model"
	"github.com/sells-group/mortgage-agent/internal/tools"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

// maxToolRounds bounds the tool-execution loop within one turn.
const maxToolRounds = 8

// Conversation holds one session's message history and drives the
// tool-calling loop against the conversation engine.
type Conversation struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	system    []anthropic.SystemBlock
	history   []anthropic.Message
}

// NewConversation builds an empty conversation.
func NewConversation(client anthropic.Client, modelID string, maxTokens int64, systemPrompt string) *Conversation {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Conversation{
		client:    client,
		model:     modelID,
		maxTokens: maxTokens,
		system:    anthropic.BuildCachedSystemBlocks(systemPrompt),
	}
}

// History returns a copy of the conversation history.
func (c *Conversation) History() []anthropic.Message {
	out := make([]anthropic.Message, len(c.history))
	copy(out, c.history)
	return out
}

// Clear drops the conversation history.
func (c *Conversation) Clear() {
	c.history = nil
}

// Send runs one full turn: the user message goes out with the given
// capability set, tool invocations requested by the model are executed and
// fed back, and the loop repeats until the model stops requesting tools.
// Events are emitted in order as the turn progresses; the returned
// TurnResult has the same shape whether the turn streamed or not.
func (c *Conversation) Send(ctx context.Context, set *tools.Set, userMessage string, stream bool, emit func(model.Event)) (*model.TurnResult, error) {
	if emit == nil {
		emit = func(model.Event) {}
	}

	c.history = append(c.history, anthropic.UserText(userMessage))

	result := &model.TurnResult{}
	var fullText strings.Builder

	for round := 0; ; round++ {
		if round >= maxToolRounds {
			return nil, eris.Errorf("conversation: exceeded %d tool rounds in one turn", maxToolRounds)
		}

		req := anthropic.MessageRequest{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			System:    c.system,
			Messages:  c.history,
			Tools:     set.Defs(),
		}

		var resp *anthropic.MessageResponse
		var err error
		if stream {
			resp, err = c.client.StreamMessage(ctx, req, func(text string) {
				fullText.WriteString(text)
				emit(model.Event{Type: model.EventChunk, Content: text})
			})
		} else {
			resp, err = c.client.CreateMessage(ctx, req)
			if err == nil {
				text := resp.Text()
				fullText.WriteString(text)
			}
		}
		if err != nil {
			return nil, eris.Wrap(err, "conversation: send turn")
		}

		resp.Usage.LogCost(c.model, "chat_turn")

		// The assistant message joins history verbatim, tool_use blocks
		// included, so follow-up rounds see their own calls.
		c.history = append(c.history, anthropic.Message{Role: "assistant", Blocks: resp.Content})

		uses := resp.ToolUses()
		if resp.StopReason != "tool_use" || len(uses) == 0 {
			result.StopReason = resp.StopReason
			break
		}

		results := make([]anthropic.Block, 0, len(uses))
		for _, use := range uses {
			callID := use.ID
			if callID == "" {
				callID = uuid.New().String()
			}

			emit(model.Event{
				Type:      model.EventToolStart,
				ToolName:  use.Name,
				CallID:    callID,
				Arguments: use.Input,
			})

			output, execErr := c.execute(ctx, set, use)
			if execErr != nil {
				zap.L().Warn("conversation: capability failed",
					zap.String("capability", use.Name),
					zap.String("call_id", callID),
					zap.Error(execErr),
				)
				emit(model.Event{
					Type:     model.EventToolError,
					ToolName: use.Name,
					CallID:   callID,
					Error:    execErr.Error(),
				})
				result.Invocations = append(result.Invocations, model.ToolInvocation{
					Name: use.Name, CallID: callID, Failed: true,
				})
				results = append(results, anthropic.Block{
					Type:      anthropic.BlockTypeToolResult,
					ToolUseID: use.ID,
					Content:   fmt.Sprintf("tool error: %s", execErr.Error()),
					IsError:   true,
				})
				continue
			}

			emit(model.Event{
				Type:     model.EventToolSuccess,
				ToolName: use.Name,
				CallID:   callID,
				Result:   output,
			})
			result.Invocations = append(result.Invocations, model.ToolInvocation{
				Name: use.Name, CallID: callID,
			})
			results = append(results, anthropic.Block{
				Type:      anthropic.BlockTypeToolResult,
				ToolUseID: use.ID,
				Content:   output,
			})
		}

		c.history = append(c.history, anthropic.Message{Role: "user", Blocks: results})
	}

	result.Message = fullText.String()

	if stream {
		emit(model.Event{
			Type:    model.EventChunk,
			IsFinal: true,
			FinalMessage: &model.FinalMessage{
				Role:    "assistant",
				Content: result.Message,
			},
		})
	}

	return result, nil
}

// execute resolves the requested capability from the live set and runs it.
// A request for a capability outside the set is an execution error, not a
// crash; the model sees the failure as a tool result.
func (c *Conversation) execute(ctx context.Context, set *tools.Set, use anthropic.Block) (string, error) {
	capability, ok := set.Resolve(use.Name)
	if !ok {
		return "", eris.Errorf("capability %q is not available", use.Name)
	}
	return capability.Handler(ctx, use.Input)
}
