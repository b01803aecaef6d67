package editormcp

import "github.com/wagiedev/editor-mcp-go/internal/errors"

// Re-export error types from internal package

// EditorError is the base interface for all errors produced by the server.
type EditorError = errors.EditorError

// Violation is one failed check in a ValidationError.
type Violation = errors.Violation

// ValidationError reports tool arguments that do not match the tool schema.
// The mutation is never enqueued.
type ValidationError = errors.ValidationError

// NotFoundError reports an unknown resource type, resource id or prompt.
type NotFoundError = errors.NotFoundError

// UnknownToolError reports a call to a tool that is not registered.
type UnknownToolError = errors.UnknownToolError

// ExecutionError reports a mutation that failed or panicked on the host tick.
type ExecutionError = errors.ExecutionError

// TransportError reports a listener or HTTP serving failure.
type TransportError = errors.TransportError

// Re-export sentinel errors from internal package.
var (
	// ErrQueueClosed indicates the mutation queue was closed.
	ErrQueueClosed = errors.ErrQueueClosed

	// ErrQueueFull indicates the mutation queue reached its depth cap.
	ErrQueueFull = errors.ErrQueueFull

	// ErrServerClosed indicates the server was shut down and cannot be restarted.
	ErrServerClosed = errors.ErrServerClosed

	// ErrServerStarted indicates Start was called on a running server.
	ErrServerStarted = errors.ErrServerStarted

	// ErrMutationTimeout indicates a mutation was not drained in time.
	ErrMutationTimeout = errors.ErrMutationTimeout

	// ErrImporterUnavailable indicates an import tool ran without an importer.
	ErrImporterUnavailable = errors.ErrImporterUnavailable
)
