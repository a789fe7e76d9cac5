// Package breaker wraps a Storage backend in a circuit breaker so that an
// unreachable backend fails fast instead of stalling every mutation.
package breaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/services/storefront/internal/storage"
)

// Config holds the breaker thresholds.
type Config struct {
	// Name identifies the breaker in logs and metrics.
	Name string
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; 0 never clears them.
	Interval time.Duration
	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration
	// FailureRatio trips the breaker once MinRequests have been seen.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultConfig returns the thresholds used in production.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "storefront_storage_breaker_state",
		Help: "Current state of the storage circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Storage guards every call to the wrapped backend.
type Storage struct {
	next    storage.Storage
	breaker *gobreaker.CircuitBreaker[[]byte]
	name    string
}

// New wraps next with a circuit breaker.
func New(next storage.Storage, cfg Config, logger *slog.Logger) *Storage {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("storage breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &Storage{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		name:    cfg.Name,
	}
}

// errNotFound marks a clean miss so it is not counted as a failure.
var errNotFound = errors.New("not found")

// Load implements storage.Storage.
func (s *Storage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.breaker.Execute(func() ([]byte, error) {
		v, found, err := s.next.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errNotFound
		}
		return v, nil
	})
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, errNotFound):
		return nil, false, nil
	default:
		return nil, false, s.wrap(err)
	}
}

// Save implements storage.Storage.
func (s *Storage) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.breaker.Execute(func() ([]byte, error) {
		return nil, s.next.Save(ctx, key, value)
	})
	if err != nil {
		return s.wrap(err)
	}
	return nil
}

// Ping passes through to the wrapped backend when it supports it.
func (s *Storage) Ping(ctx context.Context) error {
	if s.breaker.State() == gobreaker.StateOpen {
		return apperrors.Unavailable(s.name, gobreaker.ErrOpenState)
	}
	if p, ok := s.next.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// State returns the current breaker state.
func (s *Storage) State() gobreaker.State {
	return s.breaker.State()
}

func (s *Storage) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Unavailable(s.name, err)
	}
	return err
}
