package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/retry"
)

type testStatusError struct {
	code codes.Code
}

func (e *testStatusError) Error() string {
	return "status error: " + e.code.String()
}

func (e *testStatusError) CanonicalCode() codes.Code {
	return e.code
}

// scripted returns a CallFunc that pops one outcome per attempt and counts
// the attempts made.
func scripted(attempts *int32, outcomes ...Result) CallFunc {
	var i int32 = -1
	return func(ctx context.Context) (any, error) {
		n := atomic.AddInt32(&i, 1)
		atomic.AddInt32(attempts, 1)
		r := outcomes[n]
		return r.Value, r.Err
	}
}

func testRetryer(maxAttempts int, maxElapsed time.Duration) *retry.Standard {
	return retry.NewStandard(func(o *retry.RetryOptions) {
		o.MaxAttempts = maxAttempts
		o.MaxElapsed = maxElapsed
		o.Backoff = retry.NewExponentialBackoff(100*time.Millisecond, time.Second)
	})
}

func TestSubmitSucceedsAfterTransientFailures(t *testing.T) {
	q := NewCompletionQueue()
	wg := testRunWorkers(q, 2)
	defer wg.Wait()
	defer q.Shutdown()

	transient := &testStatusError{code: codes.Unavailable}
	var attempts int32
	call := scripted(&attempts,
		Result{Err: transient},
		Result{Err: transient},
		Result{Value: 42},
	)

	start := time.Now()
	got := make(chan Result, 1)
	h, err := Submit(context.Background(), q, call, testRetryer(3, 10*time.Second), func(q *CompletionQueue, r Result) {
		got <- r
	})
	require.NoError(t, err)

	r := <-got
	elapsed := time.Since(start)
	assert.NoError(t, r.Err)
	assert.Equal(t, 42, r.Value)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	// two inter-attempt delays of 100ms and 200ms
	assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
	assert.Less(t, elapsed, 3*time.Second)

	v, err := h.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestSubmitExhaustsAttempts(t *testing.T) {
	q := NewCompletionQueue()
	wg := testRunWorkers(q, 2)
	defer wg.Wait()
	defer q.Shutdown()

	transient := &testStatusError{code: codes.Unavailable}
	var attempts int32
	call := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, transient
	}

	got := make(chan Result, 1)
	_, err := Submit(context.Background(), q, call, testRetryer(3, 10*time.Second), func(q *CompletionQueue, r Result) {
		got <- r
	})
	require.NoError(t, err)

	r := <-got
	var exhausted *retry.MaxAttemptsError
	require.True(t, errors.As(r.Err, &exhausted))
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, r.Err, error(transient))

	// never a 4th attempt
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestSubmitPermanentShortCircuit(t *testing.T) {
	q := NewCompletionQueue()
	wg := testRunWorkers(q, 2)
	defer wg.Wait()
	defer q.Shutdown()

	permanent := &testStatusError{code: codes.NotFound}
	var attempts int32
	call := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, permanent
	}

	got := make(chan Result, 1)
	_, err := Submit(context.Background(), q, call, testRetryer(5, 10*time.Second), func(q *CompletionQueue, r Result) {
		got <- r
	})
	require.NoError(t, err)

	r := <-got
	assert.Equal(t, error(permanent), r.Err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestSubmitMaxElapsed(t *testing.T) {
	q := NewCompletionQueue()
	wg := testRunWorkers(q, 2)
	defer wg.Wait()
	defer q.Shutdown()

	base := time.Unix(1700000000, 0)
	var ticks int32
	now = func() time.Time {
		// first call stamps the start; later calls pretend an hour passed
		if atomic.AddInt32(&ticks, 1) == 1 {
			return base
		}
		return base.Add(time.Hour)
	}
	defer func() { now = time.Now }()

	transient := &testStatusError{code: codes.Unavailable}
	var attempts int32
	call := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, transient
	}

	got := make(chan Result, 1)
	_, err := Submit(context.Background(), q, call, testRetryer(10, time.Minute), func(q *CompletionQueue, r Result) {
		got <- r
	})
	require.NoError(t, err)

	r := <-got
	var exhausted *retry.MaxElapsedError
	require.True(t, errors.As(r.Err, &exhausted))
	assert.Equal(t, 1, exhausted.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestHandleCancelIdempotent(t *testing.T) {
	q := NewCompletionQueue()
	wg := testRunWorkers(q, 2)
	defer wg.Wait()
	defer q.Shutdown()

	var fired int32
	got := make(chan Result, 1)
	h, err := Submit(context.Background(), q, func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, testRetryer(3, 0), func(q *CompletionQueue, r Result) {
		atomic.AddInt32(&fired, 1)
		got <- r
	})
	require.NoError(t, err)

	h.Cancel()
	h.Cancel()

	r := <-got
	var canceled *CanceledError
	assert.True(t, errors.As(r.Err, &canceled))

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestHandleCancelDuringBackoff(t *testing.T) {
	q := NewCompletionQueue()
	wg := testRunWorkers(q, 2)
	defer wg.Wait()
	defer q.Shutdown()

	transient := &testStatusError{code: codes.Unavailable}
	var attempts int32
	attemptStarted := make(chan struct{}, 8)
	call := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&attempts, 1)
		attemptStarted <- struct{}{}
		return nil, transient
	}

	retryer := retry.NewStandard(func(o *retry.RetryOptions) {
		o.MaxAttempts = 5
		o.Backoff = retry.NewExponentialBackoff(time.Hour, time.Hour)
	})

	got := make(chan Result, 1)
	h, err := Submit(context.Background(), q, call, retryer, func(q *CompletionQueue, r Result) {
		got <- r
	})
	require.NoError(t, err)

	<-attemptStarted
	// wait until the retry logic has parked the call in its backoff timer
	time.Sleep(20 * time.Millisecond)
	h.Cancel()

	r := <-got
	var canceled *CanceledError
	require.True(t, errors.As(r.Err, &canceled))
	assert.Equal(t, 1, canceled.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestWaitCancelsOnContextDone(t *testing.T) {
	q := NewCompletionQueue()
	wg := testRunWorkers(q, 2)
	defer wg.Wait()
	defer q.Shutdown()

	h, err := Submit(context.Background(), q, func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, retry.NopRetryer{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, werr := h.Wait(ctx)
	var canceled *CanceledError
	assert.True(t, errors.As(werr, &canceled))
}

func TestSubmitAfterShutdownFailsFast(t *testing.T) {
	q := NewCompletionQueue()
	q.Shutdown()

	_, err := Submit(context.Background(), q, func(ctx context.Context) (any, error) {
		return nil, nil
	}, retry.NopRetryer{}, nil)
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestSubmitNilCallFailsFast(t *testing.T) {
	q := NewCompletionQueue()
	defer q.Shutdown()

	_, err := Submit(context.Background(), q, nil, retry.NopRetryer{}, nil)
	assert.Error(t, err)
}
