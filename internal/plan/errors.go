// ABOUTME: Typed parse errors for the workout DSL.
// ABOUTME: All carry enough context to point at the offending step.
package plan

import "fmt"

// ParseError reports a malformed token in a step specification.
type ParseError struct {
	Spec    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse step %q: %s", e.Spec, e.Message)
}

// UnknownKindError reports a step kind outside the enumerated set.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown step kind %q", e.Kind)
}

// EmptyRepeatError reports a repeat group with no children.
type EmptyRepeatError struct{}

func (e *EmptyRepeatError) Error() string {
	return "repeat group has no child steps"
}
