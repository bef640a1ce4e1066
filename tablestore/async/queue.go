// Package async implements the asynchronous execution core shared by every
// client operation: a completion queue that tracks in-flight remote calls and
// delivers each call's outcome exactly once, and a retrying call that drives
// repeated attempts of one logical operation against the queue.
package async

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrShutdown is returned by Schedule after Shutdown has been called.
var ErrShutdown = errors.New("async: completion queue is shut down")

// OperationID identifies one outstanding operation. It is assigned at
// schedule time and becomes invalid once the operation's completion has been
// delivered.
type OperationID uint64

// CallFunc performs one remote call. It must honor ctx cancellation and
// return exactly once.
type CallFunc func(ctx context.Context) (any, error)

// CompletionFunc receives an operation's single completion. It runs on a
// worker executing Run and must not block; it may schedule further
// operations on the queue.
type CompletionFunc func(q *CompletionQueue, r Result)

// Result is the outcome of one operation: a value or an error, never both.
type Result struct {
	Value any
	Err   error
}

type operation struct {
	id       OperationID
	cancel   context.CancelFunc
	done     CompletionFunc
	result   Result
	canceled bool
}

// CompletionQueue multiplexes concurrent outstanding remote calls submitted
// from arbitrary goroutines and dispatches their completions to the
// goroutines running Run. The zero value is not usable; construct with
// NewCompletionQueue. The queue knows nothing about retries; see Submit for
// the retrying layer.
type CompletionQueue struct {
	mu          sync.Mutex
	pending     map[OperationID]*operation
	nextID      OperationID
	outstanding int
	shutdown    bool

	completions chan *operation
	drained     chan struct{}
}

func NewCompletionQueue() *CompletionQueue {
	return &CompletionQueue{
		pending:     map[OperationID]*operation{},
		completions: make(chan *operation),
		drained:     make(chan struct{}),
	}
}

// Schedule registers call and starts it. It never blocks; the returned id can
// be passed to Cancel. done is invoked exactly once, on a goroutine running
// Run, with the call's result, a cancellation error, or ctx's error.
func (q *CompletionQueue) Schedule(ctx context.Context, call CallFunc, done CompletionFunc) (OperationID, error) {
	q.mu.Lock()
	if q.shutdown {
		q.mu.Unlock()
		return 0, ErrShutdown
	}
	q.nextID++
	opCtx, cancel := context.WithCancel(ctx)
	op := &operation{
		id:     q.nextID,
		cancel: cancel,
		done:   done,
	}
	q.pending[op.id] = op
	q.outstanding++
	q.mu.Unlock()

	// Registration happened above, atomically with starting the call here, so
	// the call cannot complete before its record exists.
	go func() {
		defer cancel()
		v, err := call(opCtx)
		q.complete(op, v, err)
	}()

	return op.id, nil
}

// ScheduleAfter schedules an operation that completes with a nil value once d
// has elapsed. Cancellation works as for any other operation. It is the
// mechanism retrying calls use to wait out a backoff delay without holding a
// goroutine idle outside the queue's accounting.
func (q *CompletionQueue) ScheduleAfter(ctx context.Context, d time.Duration, done CompletionFunc) (OperationID, error) {
	return q.Schedule(ctx, func(ctx context.Context) (any, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, done)
}

// Cancel requests that an in-flight operation abort. Best effort: a natural
// completion racing with the cancellation may win, in which case the
// continuation observes the natural result. The continuation fires exactly
// once either way. Unknown ids, including already-completed ones, are
// ignored, so cancelling twice is harmless.
func (q *CompletionQueue) Cancel(id OperationID) {
	q.mu.Lock()
	op, ok := q.pending[id]
	if ok {
		op.canceled = true
	}
	q.mu.Unlock()
	if ok {
		op.cancel()
	}
}

func (q *CompletionQueue) complete(op *operation, v any, err error) {
	q.mu.Lock()
	if err != nil && op.canceled {
		err = &CanceledError{Err: err}
	}
	q.mu.Unlock()
	op.result = Result{Value: v, Err: err}
	q.completions <- op
}

// Run processes completions until Shutdown is observed and every operation
// scheduled before it has been delivered. Multiple goroutines may call Run
// concurrently; each completion is delivered on exactly one of them.
func (q *CompletionQueue) Run() {
	for {
		select {
		case op := <-q.completions:
			q.deliver(op)
		case <-q.drained:
			return
		}
	}
}

func (q *CompletionQueue) deliver(op *operation) {
	q.mu.Lock()
	delete(q.pending, op.id)
	q.mu.Unlock()

	op.done(q, op.result)

	q.mu.Lock()
	q.outstanding--
	if q.shutdown && q.outstanding == 0 {
		close(q.drained)
	}
	q.mu.Unlock()
}

// Shutdown stops the queue from accepting new operations and lets Run return
// once the outstanding ones drain. It does not abort them; callers wanting a
// bounded shutdown must Cancel first. Idempotent.
func (q *CompletionQueue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.shutdown {
		return
	}
	q.shutdown = true
	if q.outstanding == 0 {
		close(q.drained)
	}
}
