// Package errors defines error types for the editor bridge.
//
// The taxonomy follows the request lifecycle: ValidationError and
// NotFoundError are produced synchronously by the dispatcher, ExecutionError
// surfaces only after a queued mutation ran on the host tick, and
// TransportError covers the listener. All error types support unwrapping and
// can be checked using errors.Is, errors.As, and errors.AsType.
package errors
