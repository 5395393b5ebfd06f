package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerProvider fails fast with domain.ErrNetwork once the wrapped provider
// has failed failures times in a row, until cooldown elapses.
type BreakerProvider struct {
	inner domain.WeatherProvider
	cb    *gobreaker.CircuitBreaker[domain.Snapshot]
}

// NewBreakerProvider wraps inner with a circuit breaker.
func NewBreakerProvider(inner domain.WeatherProvider, failures uint32, cooldown time.Duration, logger *slog.Logger) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A caller abandoning its request says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &BreakerProvider{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[domain.Snapshot](settings),
	}
}

func (b *BreakerProvider) Fetch(ctx context.Context, coord domain.Coordinate, days int) (domain.Snapshot, error) {
	snap, err := b.cb.Execute(func() (domain.Snapshot, error) {
		return b.inner.Fetch(ctx, coord, days)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Snapshot{}, fmt.Errorf("%w: weather provider unavailable: %w", domain.ErrNetwork, err)
	}
	return snap, err
}

// State reports the breaker state for diagnostics.
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}

// CheckReadiness reports an error while the breaker is open.
func (b *BreakerProvider) CheckReadiness(_ context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return errors.New("weather provider circuit breaker is open")
	}
	return nil
}
