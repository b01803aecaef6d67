package mcp

import (
	"fmt"
	"strings"
)

// TransportType selects an HTTP transport flavor.
type TransportType string

const (
	// TransportSSE uses Server-Sent Events with a POST endpoint per session.
	TransportSSE TransportType = "sse"
	// TransportStreamable uses the streamable HTTP transport.
	TransportStreamable TransportType = "http"
)

// Endpoint mounts one transport at an HTTP path.
type Endpoint struct {
	Type TransportType `json:"type" yaml:"type"`
	Path string        `json:"path" yaml:"path"`
}

// DefaultEndpoints serves SSE at /sse and streamable HTTP at /mcp.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Type: TransportSSE, Path: "/sse"},
		{Type: TransportStreamable, Path: "/mcp"},
	}
}

// Validate checks the endpoint type and path.
func (e Endpoint) Validate() error {
	switch e.Type {
	case TransportSSE, TransportStreamable:
	default:
		return fmt.Errorf("unknown transport type %q", e.Type)
	}

	if !strings.HasPrefix(e.Path, "/") {
		return fmt.Errorf("endpoint path %q must start with /", e.Path)
	}

	return nil
}
