package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Arguments are the decoded params.arguments of a tools/call.
type Arguments map[string]any

// ParseArguments decodes raw arguments. Absent or null arguments yield an empty set.
func ParseArguments(raw json.RawMessage) (Arguments, error) {
	args := Arguments{}
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if args == nil {
		args = Arguments{}
	}
	return args, nil
}

func missing(name string) error {
	return fmt.Errorf("missing required argument: %s", name)
}

func (a Arguments) present(name string) (any, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns a required non-empty string argument.
func (a Arguments) String(name string) (string, error) {
	v, ok := a.present(name)
	if !ok {
		return "", missing(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %s must be a string", name)
	}
	if s == "" {
		return "", missing(name)
	}
	return s, nil
}

// OptionalString returns def when the argument is absent or empty.
func (a Arguments) OptionalString(name, def string) (string, error) {
	v, ok := a.present(name)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %s must be a string", name)
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// Int returns a required integer argument. Numeric strings are accepted.
func (a Arguments) Int(name string) (int, error) {
	v, ok := a.present(name)
	if !ok {
		return 0, missing(name)
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("argument %s must be an integer", name)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("argument %s must be an integer", name)
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("argument %s must be an integer", name)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("argument %s must be an integer", name)
	}
}

// OptionalInt returns def when the argument is absent or zero.
func (a Arguments) OptionalInt(name string, def int) (int, error) {
	if _, ok := a.present(name); !ok {
		return def, nil
	}
	n, err := a.Int(name)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return def, nil
	}
	return n, nil
}

// OptionalBool returns def when the argument is absent.
func (a Arguments) OptionalBool(name string, def bool) (bool, error) {
	v, ok := a.present(name)
	if !ok {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("argument %s must be a boolean", name)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("argument %s must be a boolean", name)
	}
}

// StringList returns a list argument and whether it was supplied.
func (a Arguments) StringList(name string) ([]string, bool, error) {
	v, ok := a.present(name)
	if !ok {
		return nil, false, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, true, fmt.Errorf("argument %s must be a list of strings", name)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, true, fmt.Errorf("argument %s must be a list of strings", name)
		}
		out = append(out, s)
	}
	return out, true, nil
}
