package queue

import (
	"context"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
)

// Future is the pending result of an enqueued mutation.
type Future struct {
	p *pending
	q *Queue
}

// ID returns the mutation identifier used in log lines.
func (f *Future) ID() string {
	return f.p.id
}

// Done returns a channel that is closed once the mutation has executed.
func (f *Future) Done() <-chan struct{} {
	return f.p.resolved
}

// Wait blocks until the host executes the mutation, the queue closes, or ctx
// is done.
//
// When ctx ends before the mutation has started, the mutation is withdrawn
// and will never run. Once execution has begun Wait always returns its
// outcome, because the host goroutine is already committed to it.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.p.resolved:
		return f.p.value, f.p.err
	default:
	}

	select {
	case <-f.p.resolved:
		return f.p.value, f.p.err

	case <-f.q.done:
		if f.q.withdraw(f.p) {
			return nil, errors.ErrQueueClosed
		}

		<-f.p.resolved

		return f.p.value, f.p.err

	case <-ctx.Done():
		if f.q.withdraw(f.p) {
			return nil, ctx.Err()
		}

		<-f.p.resolved

		return f.p.value, f.p.err
	}
}
