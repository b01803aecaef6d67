package errors

import (
	"errors"
	"fmt"
	"strings"
)

// EditorError is the base interface for all editor bridge errors.
type EditorError interface {
	error
	IsEditorError() bool
}

// Compile-time verification that all error types implement EditorError.
var (
	_ EditorError = (*ValidationError)(nil)
	_ EditorError = (*NotFoundError)(nil)
	_ EditorError = (*UnknownToolError)(nil)
	_ EditorError = (*ExecutionError)(nil)
	_ EditorError = (*TransportError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrQueueClosed indicates the mutation queue no longer accepts work.
	ErrQueueClosed = errors.New("mutation queue closed")

	// ErrQueueFull indicates the mutation queue reached its configured depth.
	ErrQueueFull = errors.New("mutation queue full")

	// ErrServerClosed indicates the server has been shut down and cannot be reused.
	ErrServerClosed = errors.New("server closed: servers are single-use, create a new one with New()")

	// ErrServerStarted indicates Start was called on a running server.
	ErrServerStarted = errors.New("server already started")

	// ErrMutationTimeout indicates a mutation was not drained within the configured timeout.
	ErrMutationTimeout = errors.New("mutation timeout")

	// ErrImporterUnavailable indicates an import tool was called without a configured importer.
	ErrImporterUnavailable = errors.New("no importer configured")
)

// Violation describes a single field-level validation failure.
type Violation struct {
	// Field is the dotted path of the offending argument, e.g. "modifications[1].position".
	Field string `json:"field"`
	// Message describes what is wrong with the field.
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}

	return v.Field + ": " + v.Message
}

// ValidationError indicates tool arguments failed schema validation.
// Nothing is dispatched when validation fails.
type ValidationError struct {
	Tool       string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}

	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// IsEditorError implements EditorError.
func (e *ValidationError) IsEditorError() bool { return true }

// NotFoundError indicates an unknown resource type, resource id or prompt.
type NotFoundError struct {
	// Kind is what was looked up: a resource type name, "resource type" or "prompt".
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsEditorError implements EditorError.
func (e *NotFoundError) IsEditorError() bool { return true }

// UnknownToolError indicates a tool call named a tool that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// IsEditorError implements EditorError.
func (e *UnknownToolError) IsEditorError() bool { return true }

// ExecutionError indicates a queued mutation failed while running on the host tick.
type ExecutionError struct {
	// Mutation is the name of the mutation, usually the tool that enqueued it.
	Mutation string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Mutation, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsEditorError implements EditorError.
func (e *ExecutionError) IsEditorError() bool { return true }

// TransportError indicates the listener or HTTP transport failed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsEditorError implements EditorError.
func (e *TransportError) IsEditorError() bool { return true }
