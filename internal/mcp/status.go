package mcp

// Status is the health report served by the HTTP handler.
type Status struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	// Pending is the number of mutations waiting for the host tick.
	Pending int `json:"pending"`
}
