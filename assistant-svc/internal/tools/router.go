package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Spec is the part of a tool the model sees.
type Spec struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
}

// Call is a function call requested by the model.
type Call struct {
	Name      string
	Arguments string
}

// Invocation is a validated call ready to be sent to the backend.
type Invocation struct {
	Tool        *Tool
	Request     Request
	Fingerprint string
	// DeclaredTotal is the total_cost a commit was called with, empty when
	// the tool takes none.
	DeclaredTotal string
}

type Router struct {
	backend Backend
	order   []*Tool
	byName  map[string]*Tool
}

func NewRouter(backend Backend, tools ...*Tool) *Router {
	if len(tools) == 0 {
		tools = DefaultTools()
	}
	r := &Router{
		backend: backend,
		order:   tools,
		byName:  make(map[string]*Tool, len(tools)),
	}
	for _, t := range tools {
		r.byName[t.Name] = t
	}
	return r
}

func (r *Router) Specs() []Spec {
	specs := make([]Spec, 0, len(r.order))
	for _, t := range r.order {
		specs = append(specs, Spec{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}
	return specs
}

func (r *Router) Lookup(name string) (*Tool, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// Prepare resolves the tool and validates the arguments without touching
// the backend.
func (r *Router) Prepare(call Call) (*Invocation, error) {
	t, err := r.Lookup(call.Name)
	if err != nil {
		return nil, err
	}
	req, fingerprint, err := t.build(json.RawMessage(call.Arguments))
	if err != nil {
		return nil, err
	}
	inv := &Invocation{Tool: t, Request: req, Fingerprint: fingerprint}
	if t.Kind == KindCommit {
		inv.DeclaredTotal = declaredTotal(json.RawMessage(call.Arguments))
	}
	return inv, nil
}

func (r *Router) Execute(ctx context.Context, customerID int, inv *Invocation) (json.RawMessage, error) {
	return r.backend.Do(ctx, customerID, inv.Request)
}

func (r *Router) Invoke(ctx context.Context, customerID int, call Call) (json.RawMessage, error) {
	inv, err := r.Prepare(call)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, customerID, inv)
}
