package agent

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/model"
	"github.com/sells-group/mortgage-agent/internal/tools"
)

// FormState is the lifecycle of the one-shot form-sending capability
// within a session.
type FormState int

const (
	// FormAvailable means the form capability may still be invoked.
	FormAvailable FormState = iota

	// FormConsumed is terminal: the form was sent once and the capability
	// stays absent for the rest of the session.
	FormConsumed
)

// SetController owns the live capability set for one session. All
// mutations of the set go through it: decision-driven add/remove and the
// one-shot enforcement of the form-sending capability.
type SetController struct {
	mu       sync.Mutex
	set      *tools.Set
	registry *tools.Registry
	form     FormState
}

// NewSetController builds a controller over the session's initial
// capability set and registry.
func NewSetController(set *tools.Set, registry *tools.Registry) *SetController {
	return &SetController{set: set, registry: registry}
}

// Apply mutates the capability set per the decision. Adding a capability
// already present and removing one that is absent are both no-ops. A
// proposal to re-add the form capability after it was consumed is filtered
// out here, so the capability is never present even transiently. Reports
// whether any mutation occurred.
func (c *SetController) Apply(d *Decision) bool {
	if d == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	mutated := false
	for _, name := range d.Add {
		if c.form == FormConsumed && name == tools.NameSendLoanForm {
			zap.L().Info("capability controller: blocked re-add of consumed capability",
				zap.String("capability", name),
			)
			continue
		}
		capability, ok := c.registry.Resolve(name)
		if !ok {
			zap.L().Warn("capability controller: decision names unknown capability",
				zap.String("capability", name),
			)
			continue
		}
		if c.set.Add(capability) {
			mutated = true
		}
	}

	for _, name := range d.Remove {
		if c.set.Remove(name) {
			mutated = true
		}
	}

	if mutated {
		zap.L().Info("capability controller: decision applied",
			zap.Strings("add", d.Add),
			zap.Strings("remove", d.Remove),
			zap.String("reason", d.Reason),
			zap.Strings("capabilities", c.set.Names()),
		)
	}
	return mutated
}

// EnforceOneShot removes the form-sending capability when it has been
// consumed, regardless of what a decision just applied. Hard override;
// cannot be reversed by a later decision.
func (c *SetController) EnforceOneShot() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.form != FormConsumed {
		return
	}
	if c.set.Remove(tools.NameSendLoanForm) {
		zap.L().Info("capability controller: removed consumed one-shot capability",
			zap.String("capability", tools.NameSendLoanForm),
		)
	}
}

// RecordInvocationEvidence transitions the form capability to CONSUMED if
// the turn's result shows it was successfully invoked. The TurnResult
// shape is identical for streamed and non-streamed turns, and matching is
// by the registered capability name on structured invocation records.
func (c *SetController) RecordInvocationEvidence(result *model.TurnResult) {
	if !result.Invoked(tools.NameSendLoanForm) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.form == FormConsumed {
		return
	}
	c.form = FormConsumed
	zap.L().Info("capability controller: one-shot capability consumed",
		zap.String("capability", tools.NameSendLoanForm),
	)
}

// FormState returns the current one-shot state.
func (c *SetController) FormState() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Set returns the live capability set.
func (c *SetController) Set() *tools.Set {
	return c.set
}
