package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	limiterPruneInterval = 5 * time.Minute
	limiterIdleExpiry    = 15 * time.Minute
)

// PostLimiter applies a per-session token bucket to whisper creation.
// Idle sessions are pruned on a timer so the map doesn't grow without bound.
type PostLimiter struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionLimiter
	limit    rate.Limit
	burst    int
	clock    clockwork.Clock
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type sessionLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPostLimiter creates a limiter allowing perMinute sustained posts with
// the given burst, and starts the prune timer.
func NewPostLimiter(perMinute float64, burst int, clock clockwork.Clock) *PostLimiter {
	l := &PostLimiter{
		sessions: make(map[uuid.UUID]*sessionLimiter),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		clock:    clock,
		stopCh:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.pruneLoop()
	return l
}

// Allow consumes one token for the session, creating its bucket on first use.
func (l *PostLimiter) Allow(sessionID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.sessions[sessionID]
	if !ok {
		entry = &sessionLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.sessions[sessionID] = entry
	}
	entry.lastSeen = l.clock.Now()
	return entry.limiter.Allow()
}

// Stop terminates the prune timer and waits for it.
func (l *PostLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	l.wg.Wait()
}

func (l *PostLimiter) pruneLoop() {
	defer l.wg.Done()

	ticker := l.clock.NewTicker(limiterPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			l.prune()
		case <-l.stopCh:
			return
		}
	}
}

func (l *PostLimiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock.Now().Add(-limiterIdleExpiry)
	for id, entry := range l.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(l.sessions, id)
		}
	}
}
