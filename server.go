package editormcp

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/editor-mcp-go/internal/dispatch"
	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/mcp"
	"github.com/wagiedev/editor-mcp-go/internal/queue"
)

const readHeaderTimeout = 10 * time.Second

// Server exposes a scene store to MCP clients over HTTP.
//
// Tool calls that change the scene are queued and applied only when the host
// calls DrainOne or Drain, normally once per frame on the goroutine that owns
// the scene. Reads are served directly from the store.
//
// A Server is single-use: after Shutdown it cannot be started again, but a
// new Server may bind the same address.
type Server struct {
	log     *slog.Logger
	options *Options
	queue   *queue.Queue
	sdk     *mcp.SDKServer
	handler http.Handler

	eg         *errgroup.Group
	httpServer *http.Server
	listener   net.Listener

	mu        sync.Mutex
	started   bool
	closed    bool
	closeOnce sync.Once
}

// New builds a server from the given options. It does not bind a socket;
// call Start for that.
func New(opts ...Option) (*Server, error) {
	options := applyOptions(opts)
	options.ApplyDefaults()

	if err := options.Validate(); err != nil {
		return nil, err
	}

	log := options.Logger.With("component", "server")

	q := queue.New(options.Logger, queue.Options{
		Order:      options.QueueOrder,
		MaxPending: options.MaxPending,
	})

	d, err := dispatch.New(options.Logger, options.Store, q, dispatch.Options{
		Importer:        options.Importer,
		Limiter:         options.Limiter(),
		MutationTimeout: options.MutationTimeout,
	})
	if err != nil {
		return nil, err
	}

	sdk := mcp.NewSDKServer(options.Logger, options.Name, options.Version, d)

	handler, err := sdk.HTTPHandler(options.Endpoints, q.Len)
	if err != nil {
		return nil, err
	}

	return &Server{
		log:     log,
		options: options,
		queue:   q,
		sdk:     sdk,
		handler: handler,
	}, nil
}

// Start binds the configured address and serves in the background. It
// returns once the listener is accepting connections. ctx only bounds the
// bind.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrServerClosed
	}

	if s.started {
		return errors.ErrServerStarted
	}

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.options.Addr)
	if err != nil {
		return &errors.TransportError{Op: "listen " + s.options.Addr, Err: err}
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	s.eg = new(errgroup.Group)
	s.eg.Go(func() error {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server stopped", "error", err)

			return &errors.TransportError{Op: "serve", Err: err}
		}

		return nil
	})

	s.started = true

	s.log.Info("Editor MCP server listening",
		"addr", ln.Addr().String(),
		"name", s.options.Name,
		"version", s.options.Version,
	)

	return nil
}

// Shutdown stops accepting connections, closes every MCP session and the
// mutation queue, and waits for the HTTP server to finish. Mutations still
// pending are discarded and their callers receive ErrQueueClosed. If ctx
// expires before in-flight requests finish, remaining connections are closed
// forcibly.
//
// Shutdown is idempotent; only the first call does any work.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		wasStarted := s.started
		s.mu.Unlock()

		s.log.Info("Shutting down editor MCP server", "pending", s.queue.Len())

		// Closing the queue first releases handlers waiting on the host tick.
		s.queue.Close()

		// SSE streams never end on their own, so close sessions before the
		// HTTP server waits for idle connections.
		s.sdk.CloseSessions()

		if !wasStarted {
			return
		}

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.log.Warn("Graceful shutdown incomplete, closing connections", "error", err)

			if closeErr := s.httpServer.Close(); closeErr != nil {
				s.log.Debug("Failed to close HTTP server", "error", closeErr)
			}

			shutdownErr = &errors.TransportError{Op: "shutdown", Err: err}
		}

		if err := s.eg.Wait(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}

		s.log.Info("Editor MCP server stopped")
	})

	return shutdownErr
}

// DrainOne applies at most one pending mutation on the calling goroutine and
// reports whether more work remains. Call it from the goroutine that owns the
// scene.
func (s *Server) DrainOne() bool {
	return s.queue.DrainOne()
}

// Drain applies up to max pending mutations (all of them when max <= 0) and
// returns how many ran.
func (s *Server) Drain(max int) int {
	return s.queue.Drain(max)
}

// Pending returns the number of mutations waiting for the host tick.
func (s *Server) Pending() int {
	return s.queue.Len()
}

// Addr returns the bound listener address once started, otherwise the
// configured address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.options.Addr
}

// Handler returns the HTTP handler serving the MCP endpoints and the health
// report. It can be mounted on a caller-owned server instead of using Start.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store returns the scene store the tools operate on.
func (s *Server) Store() ObjectStore {
	return s.options.Store
}

// Connect serves one MCP session over t, for in-process clients and
// transports other than HTTP.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t)
}
