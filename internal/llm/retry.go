package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Backoff describes the retry schedule of model calls. After the n-th failed
// attempt the client waits Initial + n*Step before trying again. No wait
// follows the last attempt.
type Backoff struct {
	Initial     time.Duration
	Step        time.Duration
	MaxAttempts int
}

// DefaultBackoff waits 4s after the first failure and 7s after the second,
// giving up after the third attempt.
var DefaultBackoff = Backoff{
	Initial:     time.Second,
	Step:        3 * time.Second,
	MaxAttempts: 3,
}

// Delay returns the wait after the given failed attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	return b.Initial + time.Duration(attempt)*b.Step
}

// BackOff returns a fresh backoff.BackOff following the schedule of b.
func (b Backoff) BackOff() backoff.BackOff {
	return &linearBackOff{schedule: b}
}

func (b Backoff) attempts() int {
	if b.MaxAttempts < 1 {
		return 1
	}
	return b.MaxAttempts
}

// linearBackOff grows the wait by a fixed step per failure.
type linearBackOff struct {
	schedule Backoff
	failures int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.failures++
	if l.failures >= l.schedule.attempts() {
		return backoff.Stop
	}
	return l.schedule.Delay(l.failures)
}

func (l *linearBackOff) Reset() {
	l.failures = 0
}

// RetryNotify is called before each wait with the error of the failed
// attempt and the wait that follows it.
type RetryNotify func(err error, wait time.Duration)

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *backoff.PermanentError
	return errors.As(err, &p)
}

// retry runs fn until it succeeds, returns a permanent error, ctx ends or the
// attempts are used up. It returns the number of attempts made and the last
// error, or the context error if ctx ended first.
func retry(ctx context.Context, b Backoff, notify RetryNotify, fn func(attempt int) error) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		return struct{}{}, fn(attempts)
	},
		backoff.WithBackOff(b.BackOff()),
		backoff.WithMaxTries(uint(b.attempts())),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(backoff.Notify(notify)),
	)
	return attempts, err
}
