// Package agent implements the mortgage advisor: the per-session turn
// pipeline, the capability decision step, and the capability set
// controller with its one-shot enforcement.
package agent

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/config"
	"github.com/sells-group/mortgage-agent/internal/model"
	"github.com/sells-group/mortgage-agent/internal/officers"
	"github.com/sells-group/mortgage-agent/internal/requirements"
	"github.com/sells-group/mortgage-agent/internal/tools"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

// Options configures a new Advisor.
type Options struct {
	Client    anthropic.Client
	KB        tools.KBSearcher // optional; nil falls back to model synthesis
	Pool      *officers.Pool   // optional; nil loads the embedded pool
	Anthropic config.AnthropicConfig
	Agent     config.AgentConfig
}

// Advisor is one session's mortgage advisory agent. Not safe for
// concurrent use; the transport processes a session's turns sequentially.
type Advisor struct {
	opts       Options
	reqs       *requirements.Record
	registry   *tools.Registry
	controller *SetController
	decision   *DecisionStep
	conv       *Conversation
}

// New builds an advisor with an empty requirements record and the default
// capability set.
func New(opts Options) (*Advisor, error) {
	if opts.Client == nil {
		return nil, eris.New("agent: nil engine client")
	}
	if opts.Pool == nil {
		pool, err := officers.LoadPool()
		if err != nil {
			return nil, err
		}
		opts.Pool = pool
	}

	a := &Advisor{
		opts:     opts,
		decision: NewDecisionStep(opts.Client, opts.Anthropic.HaikuModel, opts.Agent.HistoryWindow),
	}
	a.build()

	zap.L().Info("agent: initialized",
		zap.Strings("capabilities", a.controller.Set().Names()),
		zap.Bool("dynamic_capabilities", opts.Agent.DynamicCapabilities),
	)
	return a, nil
}

// build wires a fresh requirements record, capability registry, set,
// controller, and conversation. Called at construction and on reset: the
// capabilities close over the record, so a new record means new handles.
func (a *Advisor) build() {
	a.reqs = requirements.New()

	caps := []*tools.Capability{
		tools.NewSendLoanForm(),
		tools.NewSearchKnowledge(a.opts.KB, a.opts.Client, a.opts.Anthropic.HaikuModel),
		tools.NewRecommendOfficers(a.reqs, a.opts.Pool),
		tools.NewUpdateRequirements(a.reqs),
	}

	a.registry = tools.NewRegistry(caps...)
	a.controller = NewSetController(tools.NewSet(caps...), a.registry)
	a.conv = NewConversation(a.opts.Client, a.opts.Anthropic.SonnetModel, a.opts.Anthropic.MaxTokens, systemPrompt)
}

// SendMessage runs one user turn through the full pipeline: capability
// decision, apply, one-shot enforcement, main response with tool loop,
// then invocation-evidence recording for the next turn. No decision-path
// failure prevents the main response.
func (a *Advisor) SendMessage(ctx context.Context, message string, stream bool, emit func(model.Event)) (*model.TurnResult, error) {
	if a.opts.Agent.DynamicCapabilities {
		d := a.decision.Decide(ctx, a.controller.Set().Names(), a.conv.History(), message)
		a.controller.Apply(d)
	}

	a.controller.EnforceOneShot()

	result, err := a.conv.Send(ctx, a.controller.Set(), message, stream, emit)
	if err != nil {
		return nil, err
	}

	a.controller.RecordInvocationEvidence(result)
	return result, nil
}

// Reset restores the session to its initial state: empty requirements,
// default capability set, one-shot state AVAILABLE, empty history.
func (a *Advisor) Reset() {
	a.conv.Clear()
	a.build()
	zap.L().Info("agent: session reset")
}

// Requirements returns the live requirements record.
func (a *Advisor) Requirements() *requirements.Record {
	return a.reqs
}

// Capabilities returns the names in the live capability set, in order.
func (a *Advisor) Capabilities() []string {
	return a.controller.Set().Names()
}
