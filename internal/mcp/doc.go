// Package mcp adapts the dispatcher to the Model Context Protocol using the
// official Go SDK.
//
// It registers the editor tools, one resource template per resource type and
// the prompts, maps dispatcher errors to protocol errors, and mounts the SSE
// and streamable HTTP transports next to a health endpoint.
package mcp
