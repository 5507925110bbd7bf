package annotate

import (
	"context"
	"time"
)

const (
	// BaseDelay is the first backoff interval; each retry doubles it.
	BaseDelay = 3 * time.Second
	// MaxRetries bounds the number of retries after the initial attempt,
	// yielding the schedule 3s, 6s, 12s, 24s, 48s.
	MaxRetries = 5
	// ChunkDelay is the pause between consecutive chunk posts.
	ChunkDelay = 3 * time.Second
	// ChunkSize is the number of comments attached to one review.
	ChunkSize = 20
)

// backoff is the retry state threaded through attempts as a value: how many
// retries have happened and how long the next wait will be. It never
// mutates; next returns the successor state.
type backoff struct {
	attempt int
	delay   time.Duration
}

func newBackoff() backoff {
	return backoff{attempt: 0, delay: BaseDelay}
}

func (b backoff) exhausted() bool {
	return b.attempt >= MaxRetries
}

func (b backoff) next() backoff {
	return backoff{attempt: b.attempt + 1, delay: b.delay * 2}
}

// Retry runs fn, backing off and retrying on rate-limit errors up to
// MaxRetries times. Any other error, success, or context cancellation ends
// the loop immediately. sleep is injectable for tests; pass nil for real
// waiting.
func Retry(ctx context.Context, sleep func(time.Duration), fn func() error) error {
	if sleep == nil {
		sleep = wait(ctx)
	}
	state := newBackoff()
	for {
		err := fn()
		if err == nil || !IsRateLimit(err) {
			return err
		}
		if state.exhausted() {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sleep(state.delay)
		state = state.next()
	}
}

func wait(ctx context.Context) func(time.Duration) {
	return func(d time.Duration) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
}
