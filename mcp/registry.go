package mcp

import (
	"context"
	"errors"
	"fmt"
)

// InputSchema is the JSON-schema style descriptor advertised by tools/list.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// ObjectSchema builds an InputSchema of type object.
func ObjectSchema(properties map[string]Property, required ...string) InputSchema {
	if properties == nil {
		properties = map[string]Property{}
	}
	return InputSchema{Type: "object", Properties: properties, Required: required}
}

// Handler runs a tool. The returned value is serialised as the tool result.
type Handler func(ctx context.Context, args Arguments) (any, error)

type Tool struct {
	Name        string
	Description string
	InputSchema InputSchema
	Handler     Handler
}

// Registry is the fixed catalogue of tools, in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds the catalogue. Duplicate or incomplete tools are rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t.Name == "" {
			return nil, errors.New("tool name cannot be empty")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", t.Name)
		}
		if _, exists := r.tools[t.Name]; exists {
			return nil, fmt.Errorf("duplicate tool %q", t.Name)
		}
		if t.InputSchema.Type == "" {
			t.InputSchema = ObjectSchema(t.InputSchema.Properties, t.InputSchema.Required...)
		}
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns the catalogue in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}
