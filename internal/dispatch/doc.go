// Package dispatch routes protocol requests to the registry, the tool
// validator and the mutation queue.
//
// Reads (resource listing, resource reads, query_resources) are answered on
// the calling goroutine and may observe the scene before or after a pending
// mutation. Mutating tools are validated, captured in a single closure per
// call and handed to the queue; the call returns once the host has drained
// that closure.
package dispatch
