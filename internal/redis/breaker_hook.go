package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/Simran251393/whisperwalls/internal/metrics"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// BreakerHook implements goredis.Hook and routes every dial and command
// through a circuit breaker, so a dead Redis fails fast instead of stalling
// request handlers. The hooks pattern covers all operations without wrapping
// the client.
type BreakerHook struct {
	cb *gobreaker.CircuitBreaker
}

var _ goredis.Hook = (*BreakerHook)(nil)

// NewBreakerHook builds the hook: trip after 5 consecutive failures, stay
// open for 30s, allow a single probe when half-open.
func NewBreakerHook() *BreakerHook {
	settings := gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"component", name, "from", from.String(), "to", to.String())
			metrics.BreakerStateChanges.WithLabelValues(name, to.String()).Inc()
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	return &BreakerHook{cb: gobreaker.NewCircuitBreaker(settings)}
}

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

func (h *BreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := h.cb.Execute(func() (any, error) {
			return next(ctx, network, addr)
		})
		if err != nil {
			return nil, err
		}
		return conn.(net.Conn), nil
	}
}

func (h *BreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		_, err := h.cb.Execute(func() (any, error) {
			err := next(ctx, cmd)
			// A key miss is a healthy response, not a failure signal.
			if errors.Is(err, goredis.Nil) {
				return nil, nil
			}
			return nil, err
		})
		if err != nil && !errors.Is(err, goredis.Nil) {
			if cmd.Err() == nil {
				cmd.SetErr(err)
			}
			return err
		}
		return cmd.Err()
	}
}

func (h *BreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		_, err := h.cb.Execute(func() (any, error) {
			return nil, next(ctx, cmds)
		})
		return err
	}
}
