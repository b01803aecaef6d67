package config

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/wagiedev/editor-mcp-go/internal/mcp"
	"github.com/wagiedev/editor-mcp-go/internal/queue"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

const (
	// DefaultName is the MCP implementation name reported to clients.
	DefaultName = "wonderland-editor-mcp"
	// DefaultVersion is the MCP implementation version reported to clients.
	DefaultVersion = "0.1.0"
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = "127.0.0.1:3000"
)

// Options configures the editor MCP server.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Name and Version identify the server during MCP initialization.
	Name    string
	Version string

	// Addr is the TCP address the HTTP listener binds.
	Addr string

	// Endpoints lists the MCP transports to mount. Defaults to SSE at /sse
	// and streamable HTTP at /mcp.
	Endpoints []mcp.Endpoint

	// QueueOrder selects the order in which the host tick applies pending
	// mutations.
	QueueOrder queue.Order

	// MaxPending caps the number of mutations waiting for the host tick.
	// Zero means unbounded.
	MaxPending int

	// MutationTimeout bounds how long a tool call waits for its mutation to
	// be drained. Zero waits until the request context ends.
	MutationTimeout time.Duration

	// RateLimit is the number of mutating tool calls admitted per second.
	// Zero disables admission control.
	RateLimit float64

	// RateBurst is the limiter bucket size. Defaults to 1 when RateLimit is set.
	RateBurst int

	// Store holds the scene the tools operate on. Defaults to an empty
	// in-memory store.
	Store scene.ObjectStore

	// Importer performs import_scenes and import_files. When nil those tools
	// fail with ErrImporterUnavailable.
	Importer scene.Importer
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	if o.Name == "" {
		o.Name = DefaultName
	}

	if o.Version == "" {
		o.Version = DefaultVersion
	}

	if o.Addr == "" {
		o.Addr = DefaultAddr
	}

	if len(o.Endpoints) == 0 {
		o.Endpoints = mcp.DefaultEndpoints()
	}

	if o.RateLimit > 0 && o.RateBurst <= 0 {
		o.RateBurst = 1
	}

	if o.Store == nil {
		o.Store = scene.NewMemoryStore()
	}
}

// Validate reports the first invalid setting.
func (o *Options) Validate() error {
	if o.MaxPending < 0 {
		return fmt.Errorf("max pending must not be negative: %d", o.MaxPending)
	}

	if o.MutationTimeout < 0 {
		return fmt.Errorf("mutation timeout must not be negative: %s", o.MutationTimeout)
	}

	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative: %g", o.RateLimit)
	}

	if o.QueueOrder != queue.OrderFIFO && o.QueueOrder != queue.OrderLIFO {
		return fmt.Errorf("unknown queue order %d", o.QueueOrder)
	}

	seen := make(map[string]struct{}, len(o.Endpoints))

	for _, e := range o.Endpoints {
		if err := e.Validate(); err != nil {
			return err
		}

		if _, dup := seen[e.Path]; dup {
			return fmt.Errorf("duplicate endpoint path %s", e.Path)
		}

		seen[e.Path] = struct{}{}
	}

	return nil
}

// Limiter returns the admission limiter for mutating tool calls, or nil when
// rate limiting is disabled.
func (o *Options) Limiter() *rate.Limiter {
	if o.RateLimit <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(o.RateLimit), o.RateBurst)
}
