package restapi

import (
	"context"
	"math"
	"strings"
	"time"
)

// RetryPolicy bounds how often a request is re-sent after a transport failure.
// HTTP error statuses are returned to the caller and never retried.
type RetryPolicy struct {
	// MaxAttempts counts the first try. Values below one mean a single attempt.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// RetryOn decides whether a transport error is worth another attempt.
	RetryOn func(err error) bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		RetryOn:      IsTransientError,
	}
}

func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

var transientErrorFragments = []string{
	"no such host",
	"cancel",
	"deadline exceeded",
	"timeout",
	"connection reset",
	"connection refused",
	"broken pipe",
	"eof",
	"temporary failure in name resolution",
	"server misbehaving",
}

// IsTransientError matches name resolution failures, timeouts and dropped connections.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, fragment := range transientErrorFragments {
		if strings.Contains(message, fragment) {
			return true
		}
	}
	return false
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) shouldRetry(err error) bool {
	if p.RetryOn == nil {
		return IsTransientError(err)
	}
	return p.RetryOn(err)
}

// delay is the wait before attempt number attempt (1-based, so attempt 2 is the first retry).
func (p RetryPolicy) delay(attempt int) time.Duration {
	if attempt < 2 || p.InitialDelay <= 0 {
		return 0
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	wait := time.Duration(float64(p.InitialDelay) * math.Pow(multiplier, float64(attempt-2)))
	if p.MaxDelay > 0 && (wait > p.MaxDelay || wait <= 0) {
		wait = p.MaxDelay
	}
	return wait
}

func sleep(ctx context.Context, wait time.Duration) error {
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
