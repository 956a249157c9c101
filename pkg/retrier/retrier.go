package retrier

import (
	"context"
	"time"
)

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type (
	ShouldRetryFunc func(error) bool
	// OnRetryFunc is called before every backoff sleep with the failed attempt's error.
	OnRetryFunc func(err error, wait time.Duration)
)

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Randomization   float64
	Multiplier      float64

	// nil retries every error.
	ShouldRetry ShouldRetryFunc

	// MaxRetries of 0 means the budget is bounded by MaxElapsedTime only.
	MaxRetries uint64

	OnRetry OnRetryFunc
}
