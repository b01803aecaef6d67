package dispatch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/queue"
	"github.com/wagiedev/editor-mcp-go/internal/registry"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
	"github.com/wagiedev/editor-mcp-go/internal/tools"
)

// Options configures a Dispatcher.
type Options struct {
	// Importer runs import_scenes and import_files. Without it both tools fail
	// with ErrImporterUnavailable.
	Importer scene.Importer
	// Limiter throttles mutating tool calls before they are enqueued.
	Limiter *rate.Limiter
	// MutationTimeout bounds how long a tool call waits for the host to drain
	// its mutation. Zero waits until the request context ends.
	MutationTimeout time.Duration
	// NewID generates object ids. Defaults to random UUIDs.
	NewID func() string
}

// Dispatcher routes protocol requests. Reads are answered directly from the
// registry; mutating tool calls become one queued mutation each.
type Dispatcher struct {
	log       *slog.Logger
	store     scene.ObjectStore
	registry  *registry.Registry
	validator *tools.Validator
	queue     *queue.Queue

	importer        scene.Importer
	limiter         *rate.Limiter
	mutationTimeout time.Duration
	newID           func() string
}

// New creates a dispatcher over store whose mutations go through q.
func New(log *slog.Logger, store scene.ObjectStore, q *queue.Queue, opts Options) (*Dispatcher, error) {
	validator, err := tools.NewValidator()
	if err != nil {
		return nil, err
	}

	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Dispatcher{
		log:             log.With("component", "dispatcher"),
		store:           store,
		registry:        registry.New(log, store),
		validator:       validator,
		queue:           q,
		importer:        opts.Importer,
		limiter:         opts.Limiter,
		mutationTimeout: opts.MutationTimeout,
		newID:           newID,
	}, nil
}

// Registry returns the resource registry the dispatcher reads from.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Handle dispatches req by kind.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	switch req.Kind {
	case KindListResources:
		return Response{Resources: d.ListResources()}
	case KindReadResource:
		contents, err := d.ReadResource(req.URI)
		return Response{Contents: contents, Err: err}
	case KindListTools:
		return Response{Tools: d.ListTools()}
	case KindListPrompts:
		return Response{Prompts: d.ListPrompts()}
	case KindGetPrompt:
		prompt, err := d.GetPrompt(req.Name)
		return Response{Prompt: prompt, Err: err}
	case KindCallTool:
		result, err := d.CallTool(ctx, req.Name, req.Arguments)
		return Response{Result: result, Err: err}
	default:
		return Response{Err: fmt.Errorf("unsupported request kind %q", req.Kind)}
	}
}

// ListResources lists every resource of every type. Reads are not ordered
// against pending mutations.
func (d *Dispatcher) ListResources() []ResourceDescriptor {
	var out []ResourceDescriptor

	for _, t := range d.registry.Types() {
		summaries, err := d.registry.List(t)
		if err != nil {
			d.log.Warn("Failed to list resources", "type", t, "error", err)

			continue
		}

		for _, s := range summaries {
			out = append(out, ResourceDescriptor{
				URI:         FormatURI(t, s.ID),
				Name:        s.Name,
				MIMEType:    MIMEType,
				Description: fmt.Sprintf("%s resource: %s", t, s.Name),
			})
		}
	}

	return out
}

// ReadResource returns the full record addressed by a "type://id" URI.
func (d *Dispatcher) ReadResource(uri string) ([]ResourceContents, error) {
	t, id, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	res, err := d.registry.Get(t, id)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", uri, err)
	}

	return []ResourceContents{{URI: uri, MIMEType: MIMEType, Text: string(data)}}, nil
}

// ListTools returns the tool descriptors.
func (d *Dispatcher) ListTools() []tools.Descriptor {
	return d.validator.Descriptors()
}

// CallTool validates and executes a tool call. Mutating tools block until
// the host has drained their mutation.
func (d *Dispatcher) CallTool(ctx context.Context, name string, raw json.RawMessage) (*ToolResult, error) {
	desc, ok := d.validator.Lookup(name)
	if !ok {
		d.log.Warn("Unknown tool called", "tool", name)

		return nil, &errors.UnknownToolError{Name: name}
	}

	args, err := d.validator.Validate(name, raw)
	if err != nil {
		d.log.Warn("Rejected tool arguments", "tool", name, "error", err)

		return nil, err
	}

	if !desc.Mutating {
		return d.query(args)
	}

	fn, err := d.mutation(ctx, args)
	if err != nil {
		return nil, err
	}

	return d.submit(ctx, name, fn)
}

func (d *Dispatcher) query(args tools.Args) (*ToolResult, error) {
	q, ok := args.(*tools.QueryResourcesArgs)
	if !ok {
		return nil, fmt.Errorf("unexpected arguments %T for %s", args, args.ToolName())
	}

	resources, err := d.registry.Resources(q.ResourceType)
	if err != nil {
		return nil, err
	}

	selected, err := q.Select(resources)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(selected)
	if err != nil {
		return nil, fmt.Errorf("encode query result: %w", err)
	}

	return &ToolResult{Text: string(data)}, nil
}

// mutation builds the single closure that applies a tool call on the host.
func (d *Dispatcher) mutation(ctx context.Context, args tools.Args) (queue.Func, error) {
	// The importer must not be interrupted by a waiter giving up after the
	// mutation has started.
	hostCtx := context.WithoutCancel(ctx)

	switch a := args.(type) {
	case *tools.CreateObjectArgs:
		id := d.newID()

		return func() (any, error) { return d.createObject(id, a) }, nil
	case *tools.ModifyObjectsArgs:
		return func() (any, error) { return d.modifyObjects(a.Modifications) }, nil
	case *tools.ImportScenesArgs:
		return func() (any, error) { return d.importScenes(hostCtx, a.Imports) }, nil
	case *tools.ImportFilesArgs:
		return func() (any, error) { return d.importFiles(hostCtx, a.Imports) }, nil
	default:
		return nil, fmt.Errorf("no mutation for %s", args.ToolName())
	}
}

// submit enqueues fn and waits for the host to execute it.
func (d *Dispatcher) submit(ctx context.Context, name string, fn queue.Func) (*ToolResult, error) {
	// One deadline covers both the limiter and the wait for the host tick.
	if d.mutationTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeoutCause(ctx, d.mutationTimeout, errors.ErrMutationTimeout)
		defer cancel()
	}

	if err := d.admit(ctx); err != nil {
		if stderrors.Is(err, errors.ErrMutationTimeout) {
			return nil, fmt.Errorf("%s after %s: %w", name, d.mutationTimeout, errors.ErrMutationTimeout)
		}

		return nil, fmt.Errorf("rate limit %s: %w", name, err)
	}

	future, err := d.queue.Enqueue(ctx, name, fn)
	if err != nil {
		d.log.Warn("Failed to enqueue mutation", "tool", name, "error", err)

		return nil, err
	}

	d.log.Debug("Waiting for host to apply mutation", "tool", name, "mutation_id", future.ID())

	value, err := future.Wait(ctx)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) && stderrors.Is(context.Cause(ctx), errors.ErrMutationTimeout) {
			return nil, fmt.Errorf("%s after %s: %w", name, d.mutationTimeout, errors.ErrMutationTimeout)
		}

		return nil, err
	}

	text, _ := value.(string)

	return &ToolResult{Text: text}, nil
}

// admit waits for a limiter token until ctx ends. The returned error is the
// context cause, so a mutation timeout stays recognizable.
func (d *Dispatcher) admit(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}

	r := d.limiter.Reserve()
	if !r.OK() {
		return fmt.Errorf("burst %d too small", d.limiter.Burst())
	}

	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()

		return context.Cause(ctx)
	}
}

// joinLines renders per-item result lines.
func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
