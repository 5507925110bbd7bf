package annotate

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PostFunc submits one chunk of comments as a single review.
type PostFunc func(ctx context.Context, comments []Request) error

// Stats is the batcher's completion report.
type Stats struct {
	Attempted int
	Posted    int
	Dropped   int
	Failed    int
}

// Batcher posts annotation requests in fixed-size chunks, sequentially, with
// an enforced delay between chunks.
type Batcher struct {
	Post  PostFunc
	Log   *zap.SugaredLogger
	Sleep func(time.Duration) // injectable for tests; nil means real sleep
}

// Run posts every request and returns the totals. A chunk that exhausts its
// retries or hits an unclassified error is marked failed and the run moves
// on; partial posting failure is never fatal.
func (b *Batcher) Run(ctx context.Context, reqs []Request) Stats {
	sleep := b.Sleep
	if sleep == nil {
		sleep = wait(ctx)
	}

	stats := Stats{Attempted: len(reqs)}
	for start := 0; start < len(reqs); start += ChunkSize {
		end := start + ChunkSize
		if end > len(reqs) {
			end = len(reqs)
		}
		if start > 0 {
			sleep(ChunkDelay)
		}
		chunk := append([]Request(nil), reqs[start:end]...)
		posted, dropped := b.postChunk(ctx, chunk, sleep)
		stats.Posted += posted
		stats.Dropped += dropped
		stats.Failed += len(chunk) - posted - dropped
	}
	return stats
}

// postChunk submits one chunk, retrying rate limits with exponential backoff
// and shedding comments the platform rejects as outside the diff. Dropping a
// comment neither consumes a retry attempt nor resets the backoff delay.
func (b *Batcher) postChunk(ctx context.Context, chunk []Request, sleep func(time.Duration)) (posted, dropped int) {
	state := newBackoff()
	for len(chunk) > 0 {
		err := b.Post(ctx, chunk)
		if err == nil {
			return len(chunk), dropped
		}
		switch {
		case IsLineNotInDiff(err):
			i := offending(err, chunk)
			b.Log.Warnw("line no longer in diff, dropping annotation",
				"path", chunk[i].Path, "line", chunk[i].Line)
			chunk = append(chunk[:i], chunk[i+1:]...)
			dropped++
		case IsRateLimit(err):
			if state.exhausted() {
				b.Log.Errorw("rate limit retries exhausted, chunk failed",
					"size", len(chunk), "error", err)
				return 0, dropped
			}
			b.Log.Infow("rate limited, backing off",
				"delay", state.delay, "attempt", state.attempt+1)
			if ctx.Err() != nil {
				return 0, dropped
			}
			sleep(state.delay)
			state = state.next()
		default:
			b.Log.Errorw("annotation post failed, chunk abandoned",
				"size", len(chunk), "error", err)
			return 0, dropped
		}
	}
	return 0, dropped
}

// offending picks the comment a line-not-in-diff rejection refers to. The
// platform's error body names the path when it names anything; if no comment
// in the chunk matches, shed the first so the chunk always shrinks.
func offending(err error, chunk []Request) int {
	msg := strings.ToLower(err.Error())
	for i, c := range chunk {
		if c.Path != "" && strings.Contains(msg, strings.ToLower(c.Path)) {
			return i
		}
	}
	return 0
}
