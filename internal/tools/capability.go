// Package tools defines the capabilities the advisor can expose to the
// conversation engine, the registry that resolves capability names, and
// the live per-session capability set.
package tools

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

// Capability names. These are the stable identifiers used by the decision
// step, the registry, and invocation-evidence matching.
const (
	NameSendLoanForm       = "send_loan_application_form"
	NameSearchKnowledge    = "search_mortgage_knowledge"
	NameRecommendOfficers  = "recommend_loan_officers"
	NameUpdateRequirements = "update_loan_requirements"
)

// Handler executes a capability with the model-supplied input and returns
// the result text fed back to the conversation engine.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Capability is a named callable action exposable to the conversation
// engine.
type Capability struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
	Handler     Handler
}

// Def projects the capability into the engine's tool definition shape.
func (c *Capability) Def() anthropic.ToolDef {
	props := c.Properties
	if props == nil {
		props = map[string]any{}
	}
	return anthropic.ToolDef{
		Name:        c.Name,
		Description: c.Description,
		Properties:  props,
		Required:    c.Required,
	}
}

// Registry maps capability names to handles.
type Registry struct {
	caps map[string]*Capability
}

// NewRegistry builds a registry over the given capabilities.
func NewRegistry(caps ...*Capability) *Registry {
	m := make(map[string]*Capability, len(caps))
	for _, c := range caps {
		m[c.Name] = c
	}
	return &Registry{caps: m}
}

// Resolve returns the capability registered under name.
func (r *Registry) Resolve(name string) (*Capability, bool) {
	c, ok := r.caps[name]
	return c, ok
}

// Names returns all registered capability names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set is the ordered list of capabilities currently exposed for a session.
// It never holds two entries for the same capability name.
type Set struct {
	caps []*Capability
}

// NewSet builds a set with the given initial capabilities.
func NewSet(caps ...*Capability) *Set {
	s := &Set{}
	for _, c := range caps {
		s.Add(c)
	}
	return s
}

// Contains reports whether a capability with this name is present.
func (s *Set) Contains(name string) bool {
	for _, c := range s.caps {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Add appends the capability unless one with the same name is already
// present. Reports whether the set changed.
func (s *Set) Add(c *Capability) bool {
	if s.Contains(c.Name) {
		return false
	}
	s.caps = append(s.caps, c)
	return true
}

// Remove deletes the capability with this name. Removing an absent
// capability is a no-op, not an error. Reports whether the set changed.
func (s *Set) Remove(name string) bool {
	for i, c := range s.caps {
		if c.Name == name {
			s.caps = append(s.caps[:i], s.caps[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the capability names in set order.
func (s *Set) Names() []string {
	names := make([]string, len(s.caps))
	for i, c := range s.caps {
		names[i] = c.Name
	}
	return names
}

// Defs returns the engine tool definitions for the current set, in order.
func (s *Set) Defs() []anthropic.ToolDef {
	defs := make([]anthropic.ToolDef, len(s.caps))
	for i, c := range s.caps {
		defs[i] = c.Def()
	}
	return defs
}

// Resolve returns the member capability with this name.
func (s *Set) Resolve(name string) (*Capability, bool) {
	for _, c := range s.caps {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Len returns the number of capabilities in the set.
func (s *Set) Len() int {
	return len(s.caps)
}
