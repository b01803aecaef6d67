package editormcp

import (
	"log/slog"
	"time"

	"github.com/wagiedev/editor-mcp-go/internal/config"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithName sets the implementation name reported to MCP clients.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithVersion sets the implementation version reported to MCP clients.
func WithVersion(version string) Option {
	return func(o *Options) {
		o.Version = version
	}
}

// ===== Transport =====

// WithAddr sets the TCP address the HTTP listener binds (e.g. "127.0.0.1:3000").
// Use ":0" to pick a free port and read it back with Server.Addr.
func WithAddr(addr string) Option {
	return func(o *Options) {
		o.Addr = addr
	}
}

// WithEndpoints replaces the mounted MCP transports.
func WithEndpoints(endpoints ...Endpoint) Option {
	return func(o *Options) {
		o.Endpoints = endpoints
	}
}

// ===== Mutation Queue =====

// WithQueueOrder selects the order in which the host tick applies mutations.
// The default is OrderFIFO.
func WithQueueOrder(order Order) Option {
	return func(o *Options) {
		o.QueueOrder = order
	}
}

// WithMaxPending caps the number of mutations waiting for the host tick.
// Calls beyond the cap fail with ErrQueueFull.
func WithMaxPending(n int) Option {
	return func(o *Options) {
		o.MaxPending = n
	}
}

// WithMutationTimeout bounds how long a tool call waits for the host tick.
// A mutation that has not started when the timeout fires is withdrawn.
func WithMutationTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.MutationTimeout = d
	}
}

// WithRateLimit admits at most perSecond mutating tool calls per second with
// the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *Options) {
		o.RateLimit = perSecond
		o.RateBurst = burst
	}
}

// ===== Scene =====

// WithStore sets the scene store the tools operate on.
// If not set, an empty in-memory store is used.
func WithStore(store ObjectStore) Option {
	return func(o *Options) {
		o.Store = store
	}
}

// WithImporter sets the importer used by import_scenes and import_files.
func WithImporter(importer Importer) Option {
	return func(o *Options) {
		o.Importer = importer
	}
}

// ===== Configuration File =====

// LoadConfigFile reads a YAML configuration file and returns an Option that
// applies it. Options passed after it override the file.
func LoadConfigFile(path string) (Option, error) {
	f, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	// Validate the file eagerly so the returned option cannot fail.
	if err := f.Apply(&Options{}); err != nil {
		return nil, err
	}

	return func(o *Options) {
		_ = f.Apply(o)
	}, nil
}
