package queue

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
)

// Order selects which pending mutation DrainOne executes next.
type Order int

const (
	// OrderFIFO executes mutations in submission order.
	OrderFIFO Order = iota
	// OrderLIFO executes the most recently enqueued mutation first.
	OrderLIFO
)

// String returns the configuration name of the order.
func (o Order) String() string {
	switch o {
	case OrderFIFO:
		return "fifo"
	case OrderLIFO:
		return "lifo"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder converts "fifo" or "lifo" to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "fifo", "FIFO":
		return OrderFIFO, nil
	case "lifo", "LIFO":
		return OrderLIFO, nil
	default:
		return OrderFIFO, fmt.Errorf("unknown queue order %q", s)
	}
}

// Func is the body of a mutation. It runs on the goroutine that calls DrainOne.
type Func func() (any, error)

// Options configures a Queue.
type Options struct {
	// Order is the drain policy. Defaults to OrderFIFO.
	Order Order
	// MaxPending caps the number of queued mutations. Zero means unbounded.
	MaxPending int
}

// pending mutation states.
const (
	statePending int32 = iota
	stateRunning
	stateWithdrawn
)

// pending is a queued mutation awaiting execution.
type pending struct {
	id       string
	name     string
	fn       Func
	enqueued time.Time

	state atomic.Int32

	// value and err are written once before resolved is closed.
	value    any
	err      error
	resolved chan struct{}
}

func (p *pending) resolve(value any, err error) {
	p.value = value
	p.err = err
	close(p.resolved)
}

// Queue hands mutations from concurrent producers to a single host consumer.
//
// Enqueue may be called from any goroutine. DrainOne and Drain must only be
// called from the host's update goroutine, which is the only place mutation
// closures ever run.
type Queue struct {
	log        *slog.Logger
	order      Order
	maxPending int

	mu     sync.Mutex
	items  []*pending
	closed bool

	draining atomic.Bool

	closeOnce sync.Once
	done      chan struct{}
}

// New creates an open mutation queue.
func New(log *slog.Logger, opts Options) *Queue {
	return &Queue{
		log:        log.With("component", "queue"),
		order:      opts.Order,
		maxPending: opts.MaxPending,
		items:      make([]*pending, 0, 16),
		done:       make(chan struct{}),
	}
}

// Order returns the drain policy of the queue.
func (q *Queue) Order() Order {
	return q.order
}

// Enqueue appends a mutation and returns a Future that resolves once the
// host has executed it.
//
// Enqueue never blocks. It fails only when the queue is closed, when the
// configured depth is reached, or when ctx is already done.
func (q *Queue) Enqueue(ctx context.Context, name string, fn Func) (*Future, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := &pending{
		id:       ulid.Make().String(),
		name:     name,
		fn:       fn,
		enqueued: time.Now(),
		resolved: make(chan struct{}),
	}

	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()

		return nil, errors.ErrQueueClosed
	}

	if q.maxPending > 0 && len(q.items) >= q.maxPending {
		depth := len(q.items)
		q.mu.Unlock()

		q.log.Warn("Rejecting mutation, queue full", "mutation", name, "depth", depth)

		return nil, fmt.Errorf("%w (depth %d)", errors.ErrQueueFull, depth)
	}

	q.items = append(q.items, p)
	depth := len(q.items)

	q.mu.Unlock()

	q.log.Debug("Mutation enqueued", "mutation_id", p.id, "mutation", name, "depth", depth)

	return &Future{p: p, q: q}, nil
}

// Len returns the number of mutations waiting to be drained.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// DrainOne removes one pending mutation, if any, and executes it on the
// calling goroutine. It reports whether further work remains queued, not
// whether anything was executed.
//
// A DrainOne issued from inside an executing mutation does nothing.
func (q *Queue) DrainOne() bool {
	_, more := q.drainOne()

	return more
}

// Drain executes up to max mutations, or every queued mutation when max <= 0,
// and returns how many ran. Mutations enqueued while draining are included
// when no limit is given. A Drain issued from inside an executing mutation
// runs nothing and returns 0.
func (q *Queue) Drain(max int) int {
	executed := 0

	for max <= 0 || executed < max {
		ran, more := q.drainOne()
		if !ran {
			// Empty, or called from inside a running mutation.
			break
		}

		executed++

		if !more {
			break
		}
	}

	return executed
}

func (q *Queue) drainOne() (executed bool, more bool) {
	if !q.draining.CompareAndSwap(false, true) {
		q.log.Warn("Ignoring re-entrant drain")

		return false, q.Len() > 0
	}
	defer q.draining.Store(false)

	for {
		p, remaining := q.pop()
		if p == nil {
			return false, false
		}

		if !p.state.CompareAndSwap(statePending, stateRunning) {
			// Withdrawn between pop and execution.
			if remaining == 0 {
				return false, false
			}

			continue
		}

		q.execute(p)

		return true, q.Len() > 0
	}
}

// pop removes the next item according to the drain order.
func (q *Queue) pop() (*pending, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	if n == 0 {
		return nil, 0
	}

	var p *pending

	switch q.order {
	case OrderLIFO:
		p = q.items[n-1]
		q.items[n-1] = nil
		q.items = q.items[:n-1]
	default:
		p = q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
	}

	return p, len(q.items)
}

// execute runs the mutation and resolves its future exactly once.
func (q *Queue) execute(p *pending) {
	start := time.Now()
	value, err := q.run(p)
	p.resolve(value, err)

	if err != nil {
		q.log.Warn("Mutation failed",
			"mutation_id", p.id,
			"mutation", p.name,
			"waited", start.Sub(p.enqueued),
			"error", err,
		)

		return
	}

	q.log.Debug("Mutation applied",
		"mutation_id", p.id,
		"mutation", p.name,
		"waited", start.Sub(p.enqueued),
		"took", time.Since(start),
	)
}

func (q *Queue) run(p *pending) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &errors.ExecutionError{Mutation: p.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	value, err = p.fn()
	if err != nil {
		if _, ok := stderrors.AsType[*errors.ExecutionError](err); !ok {
			err = &errors.ExecutionError{Mutation: p.name, Err: err}
		}

		return nil, err
	}

	return value, nil
}

// withdraw removes a mutation that has not started yet. It returns false when
// the mutation is already running or finished.
func (q *Queue) withdraw(p *pending) bool {
	if !p.state.CompareAndSwap(statePending, stateWithdrawn) {
		return false
	}

	q.mu.Lock()
	if i := slices.Index(q.items, p); i >= 0 {
		q.items = slices.Delete(q.items, i, i+1)
	}
	q.mu.Unlock()

	q.log.Debug("Mutation withdrawn", "mutation_id", p.id, "mutation", p.name)

	return true
}

// Close stops accepting mutations and releases every waiter with
// ErrQueueClosed. Mutations still queued are discarded without running.
// It is safe to call Close multiple times.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		discarded := len(q.items)
		q.items = nil
		q.mu.Unlock()

		close(q.done)

		q.log.Info("Mutation queue closed", "discarded", discarded)
	})
}

// Done returns a channel that is closed when the queue is closed.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}
