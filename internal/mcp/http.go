package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HealthPath serves the JSON Status report.
const HealthPath = "/healthz"

// HTTPHandler mounts the given endpoints plus HealthPath. pending reports the
// mutation queue depth for the health report and may be nil.
func (s *SDKServer) HTTPHandler(endpoints []Endpoint, pending func() int) (http.Handler, error) {
	getServer := func(*http.Request) *mcp.Server { return s.server }
	mux := http.NewServeMux()

	for _, e := range endpoints {
		if err := e.Validate(); err != nil {
			return nil, err
		}

		if e.Path == HealthPath {
			return nil, fmt.Errorf("endpoint path %s is reserved", HealthPath)
		}

		switch e.Type {
		case TransportSSE:
			mux.Handle(e.Path, mcp.NewSSEHandler(getServer, nil))
		case TransportStreamable:
			mux.Handle(e.Path, mcp.NewStreamableHTTPHandler(getServer, &mcp.StreamableHTTPOptions{
				Logger: s.log,
			}))
		}

		s.log.Debug("Mounted endpoint", "type", e.Type, "path", e.Path)
	}

	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		status := Status{
			Name:     s.name,
			Version:  s.version,
			Status:   "ok",
			Sessions: s.SessionCount(),
		}
		if pending != nil {
			status.Pending = pending()
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(status); err != nil {
			s.log.Debug("Failed to write health status", "error", err)
		}
	})

	return mux, nil
}
