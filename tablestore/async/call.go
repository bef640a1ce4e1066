package async

import (
	"context"
	"errors"
	"time"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/retry"
)

// for tests
var now = time.Now

// Handle tracks one retrying call from submission to its single terminal
// result.
type Handle struct {
	q       *CompletionQueue
	ctx     context.Context
	call    CallFunc
	retryer retry.Retryer
	done    CompletionFunc

	terminal chan struct{}

	// guarded by the queue's dispatch ordering: attempt state is only touched
	// by the goroutine processing this call's latest completion.
	attempt int
	started time.Time
	lastErr error

	mu       chan struct{} // 1-token semaphore, held across state changes
	opID     OperationID
	inFlight bool
	canceled bool
	finished bool
	result   Result
}

// Submit starts a retrying call on q: call is attempted until it succeeds,
// retryer reports the error permanent, the attempt or elapsed budget runs
// out, or the handle is cancelled. done is invoked exactly once with the
// terminal result, on a goroutine running the queue, no matter how many
// attempts were made. Backoff delays between attempts are scheduled on the
// queue, so no goroutine sleeps through them.
func Submit(ctx context.Context, q *CompletionQueue, call CallFunc, retryer retry.Retryer, done CompletionFunc) (*Handle, error) {
	if call == nil {
		return nil, errors.New("async: nil call")
	}
	if retryer == nil {
		retryer = retry.NopRetryer{}
	}
	h := &Handle{
		q:        q,
		ctx:      ctx,
		call:     call,
		retryer:  retryer,
		done:     done,
		terminal: make(chan struct{}),
		attempt:  1,
		started:  now(),
		mu:       make(chan struct{}, 1),
	}
	h.lock()
	defer h.unlock()
	if err := h.startAttempt(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handle) lock()   { h.mu <- struct{}{} }
func (h *Handle) unlock() { <-h.mu }

// startAttempt schedules the next remote attempt. Caller holds the lock.
func (h *Handle) startAttempt() error {
	id, err := h.q.Schedule(h.ctx, h.call, h.onAttemptDone)
	if err != nil {
		return err
	}
	h.opID = id
	h.inFlight = true
	return nil
}

func (h *Handle) onAttemptDone(q *CompletionQueue, r Result) {
	h.lock()
	h.inFlight = false

	if h.canceled {
		h.finish(Result{Err: &CanceledError{Attempts: h.attempt, Err: r.Err}})
		return
	}
	if r.Err == nil {
		h.finish(r)
		return
	}

	var canceled *CanceledError
	if errors.As(r.Err, &canceled) || errors.Is(r.Err, context.Canceled) || h.ctx.Err() != nil {
		h.finish(Result{Err: &CanceledError{Attempts: h.attempt, Err: r.Err}})
		return
	}

	h.lastErr = r.Err
	if !h.retryer.IsErrorRetryable(r.Err) {
		h.finish(r)
		return
	}

	elapsed := now().Sub(h.started)
	if h.attempt >= h.retryer.MaxAttempts() {
		h.finish(Result{Err: &retry.MaxAttemptsError{Attempts: h.attempt, Elapsed: elapsed, Err: r.Err}})
		return
	}
	if ceiling := h.retryer.MaxElapsed(); ceiling > 0 && elapsed >= ceiling {
		h.finish(Result{Err: &retry.MaxElapsedError{Attempts: h.attempt, Elapsed: elapsed, Err: r.Err}})
		return
	}

	delay, err := h.retryer.RetryDelay(h.attempt, r.Err)
	if err != nil {
		h.finish(Result{Err: &retry.MaxAttemptsError{Attempts: h.attempt, Elapsed: elapsed, Err: r.Err}})
		return
	}

	id, err := q.ScheduleAfter(h.ctx, delay, h.onBackoffDone)
	if err != nil {
		// Queue shut down between attempts.
		h.finish(Result{Err: err})
		return
	}
	h.opID = id
	h.inFlight = true
	h.attempt++
	h.unlock()
}

func (h *Handle) onBackoffDone(q *CompletionQueue, r Result) {
	h.lock()
	h.inFlight = false
	if h.canceled || r.Err != nil {
		h.finish(Result{Err: &CanceledError{Attempts: h.attempt - 1, Err: r.Err}})
		return
	}
	if err := h.startAttempt(); err != nil {
		h.finish(Result{Err: err})
		return
	}
	h.unlock()
}

// finish records the terminal result and delivers it. Caller holds the lock,
// which finish releases.
func (h *Handle) finish(r Result) {
	if h.finished {
		h.unlock()
		return
	}
	h.finished = true
	h.result = r
	h.unlock()
	if h.done != nil {
		h.done(h.q, r)
	}
	close(h.terminal)
}

// Cancel requests cancellation of the call. The in-flight attempt or backoff
// timer, if any, is cancelled; no further attempt is scheduled. The terminal
// continuation still fires exactly once, with a CanceledError unless a
// natural terminal result won the race. Idempotent.
func (h *Handle) Cancel() {
	h.lock()
	if h.finished || h.canceled {
		h.unlock()
		return
	}
	h.canceled = true
	id, inFlight := h.opID, h.inFlight
	h.unlock()
	if inFlight {
		h.q.Cancel(id)
	}
}

// Wait blocks until the call reaches its terminal state and returns the
// terminal result. If ctx expires first, the call is cancelled and Wait
// still waits for the (now prompt) terminal result, preserving exactly-once
// delivery. It is the blocking adapter for synchronous callers.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.terminal:
	case <-ctx.Done():
		h.Cancel()
		<-h.terminal
	}
	return h.result.Value, h.result.Err
}
