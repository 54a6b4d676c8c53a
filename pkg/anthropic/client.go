package anthropic

import (
	"context"
	"encoding/json"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client defines the Anthropic API operations used by the agent.
type Client interface {
	// CreateMessage sends a single non-streaming request.
	CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)

	// StreamMessage sends a streaming request, invoking onDelta for each
	// text fragment, and returns the fully accumulated response.
	StreamMessage(ctx context.Context, req MessageRequest, onDelta func(text string)) (*MessageResponse, error)
}

// MessageRequest is our own request type for CreateMessage and StreamMessage.
type MessageRequest struct {
	Model       string
	MaxTokens   int64
	System      []SystemBlock
	Messages    []Message
	Tools       []ToolDef
	ForceTool   string // when set, tool choice is forced to this tool
	Temperature *float64
}

// SystemBlock represents a system prompt block, optionally with cache control.
type SystemBlock struct {
	Text         string
	CacheControl *CacheControl
}

// CacheControl configures caching for a content block.
type CacheControl struct {
	TTL string // "5m" or "1h"
}

// ToolDef describes a tool exposed to the model.
type ToolDef struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// Message represents a single conversational message with content blocks.
type Message struct {
	Role   string // "user" or "assistant"
	Blocks []Block
}

// Block types carried in messages and responses.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// Block is one content block: plain text, a tool invocation requested by
// the model, or a tool result fed back to it.
type Block struct {
	Type string

	// BlockTypeText
	Text string

	// BlockTypeToolUse
	ID    string
	Name  string
	Input json.RawMessage

	// BlockTypeToolResult
	ToolUseID string
	Content   string
	IsError   bool
}

// UserText builds a user message holding a single text block.
func UserText(text string) Message {
	return Message{Role: "user", Blocks: []Block{{Type: BlockTypeText, Text: text}}}
}

// AssistantText builds an assistant message holding a single text block.
func AssistantText(text string) Message {
	return Message{Role: "assistant", Blocks: []Block{{Type: BlockTypeText, Text: text}}}
}

// Text concatenates the message's text blocks.
func (m Message) Text() string {
	var out string
	for _, b := range m.Blocks {
		if b.Type == BlockTypeText {
			out += b.Text
		}
	}
	return out
}

// MessageResponse is our own response type.
type MessageResponse struct {
	ID         string
	Model      string
	Content    []Block
	StopReason string
	Usage      TokenUsage
}

// Text concatenates the response's text blocks.
func (r *MessageResponse) Text() string {
	var out string
	for _, b := range r.Content {
		if b.Type == BlockTypeText {
			out += b.Text
		}
	}
	return out
}

// ToolUses returns the tool invocation blocks requested by the model.
func (r *MessageResponse) ToolUses() []Block {
	var uses []Block
	for _, b := range r.Content {
		if b.Type == BlockTypeToolUse {
			uses = append(uses, b)
		}
	}
	return uses
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
}

// EstimateCost computes an estimated cost in USD from a TokenUsage and model ID.
// Returns 0 for unknown models.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	inCost := (float64(u.InputTokens) / 1e6) * pricing[0]
	outCost := (float64(u.OutputTokens) / 1e6) * pricing[1]
	cacheWriteCost := (float64(u.CacheCreationInputTokens) / 1e6) * pricing[0] * 1.25
	cacheReadCost := (float64(u.CacheReadInputTokens) / 1e6) * pricing[0] * 0.1
	return inCost + outCost + cacheWriteCost + cacheReadCost
}

// LogCost logs token usage and estimated cost with structured zap fields.
func (u TokenUsage) LogCost(model, phase string) {
	cost := u.EstimateCost(model)
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("phase", phase),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Int64("cache_write_tokens", u.CacheCreationInputTokens),
		zap.Int64("cache_read_tokens", u.CacheReadInputTokens),
		zap.Float64("estimated_cost_usd", cost),
	)
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client  sdk.Client
	limiter *rate.Limiter
}

// NewClient creates a new Anthropic client backed by the SDK. ratePerSec
// caps outgoing request rate across all sessions; <= 0 disables limiting.
func NewClient(apiKey string, ratePerSec float64) Client {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &sdkClient{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *sdkClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "anthropic: rate limit wait")
	}

	msg, err := c.client.Messages.New(ctx, toSDKParams(req))
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	return fromSDKMessage(msg)
}

func (c *sdkClient) StreamMessage(ctx context.Context, req MessageRequest, onDelta func(text string)) (*MessageResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "anthropic: rate limit wait")
	}

	stream := c.client.Messages.NewStreaming(ctx, toSDKParams(req))
	defer stream.Close()

	acc := sdk.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := acc.Accumulate(event); err != nil {
			return nil, eris.Wrap(err, "anthropic: accumulate stream event")
		}

		if delta, ok := event.AsAny().(sdk.ContentBlockDeltaEvent); ok {
			if delta.Delta.Type == "text_delta" && delta.Delta.Text != "" && onDelta != nil {
				onDelta(delta.Delta.Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, eris.Wrap(err, "anthropic: stream message")
	}

	return fromSDKMessage(&acc)
}

// --- SDK type conversion helpers ---

func toSDKParams(req MessageRequest) sdk.MessageNewParams {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  toSDKMessages(req.Messages),
	}

	if len(req.System) > 0 {
		params.System = toSDKSystemBlocks(req.System)
	}

	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}

	if len(req.Tools) > 0 {
		tools := make([]sdk.ToolUnionParam, len(req.Tools))
		for i, t := range req.Tools {
			tools[i] = sdk.ToolUnionParam{
				OfTool: &sdk.ToolParam{
					Name:        t.Name,
					Description: sdk.String(t.Description),
					InputSchema: sdk.ToolInputSchemaParam{
						Properties: t.Properties,
						Required:   t.Required,
					},
				},
			}
		}
		params.Tools = tools
	}

	if req.ForceTool != "" {
		params.ToolChoice = sdk.ToolChoiceUnionParam{
			OfTool: &sdk.ToolChoiceToolParam{Name: req.ForceTool},
		}
	}

	return params
}

func toSDKMessages(msgs []Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, len(msgs))
	for i, m := range msgs {
		blocks := make([]sdk.ContentBlockParamUnion, 0, len(m.Blocks))
		for _, b := range m.Blocks {
			switch b.Type {
			case BlockTypeToolUse:
				blocks = append(blocks, sdk.ContentBlockParamUnion{
					OfToolUse: &sdk.ToolUseBlockParam{
						ID:    b.ID,
						Name:  b.Name,
						Input: b.Input,
					},
				})
			case BlockTypeToolResult:
				blocks = append(blocks, sdk.NewToolResultBlock(b.ToolUseID, b.Content, b.IsError))
			default:
				blocks = append(blocks, sdk.NewTextBlock(b.Text))
			}
		}
		switch m.Role {
		case "assistant":
			out[i] = sdk.NewAssistantMessage(blocks...)
		default:
			out[i] = sdk.NewUserMessage(blocks...)
		}
	}
	return out
}

func toSDKSystemBlocks(blocks []SystemBlock) []sdk.TextBlockParam {
	out := make([]sdk.TextBlockParam, len(blocks))
	for i, b := range blocks {
		out[i] = sdk.TextBlockParam{
			Text: b.Text,
		}
		if b.CacheControl != nil {
			cc := sdk.NewCacheControlEphemeralParam()
			if b.CacheControl.TTL != "" {
				cc.TTL = sdk.CacheControlEphemeralTTL(b.CacheControl.TTL)
			}
			out[i].CacheControl = cc
		}
	}
	return out
}

func fromSDKMessage(msg *sdk.Message) (*MessageResponse, error) {
	blocks := make([]Block, 0, len(msg.Content))
	for _, b := range msg.Content {
		switch v := b.AsAny().(type) {
		case sdk.TextBlock:
			blocks = append(blocks, Block{Type: BlockTypeText, Text: v.Text})
		case sdk.ToolUseBlock:
			raw, err := json.Marshal(v.Input)
			if err != nil {
				return nil, eris.Wrapf(err, "anthropic: marshal tool input for %s", v.Name)
			}
			blocks = append(blocks, Block{
				Type:  BlockTypeToolUse,
				ID:    v.ID,
				Name:  v.Name,
				Input: raw,
			})
		}
	}

	return &MessageResponse{
		ID:         msg.ID,
		Model:      string(msg.Model),
		Content:    blocks,
		StopReason: string(msg.StopReason),
		Usage: TokenUsage{
			InputTokens:              msg.Usage.InputTokens,
			OutputTokens:             msg.Usage.OutputTokens,
			CacheCreationInputTokens: msg.Usage.CacheCreationInputTokens,
			CacheReadInputTokens:     msg.Usage.CacheReadInputTokens,
		},
	}, nil
}
