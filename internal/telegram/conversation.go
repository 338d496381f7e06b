package telegram

import (
	"sync"
	"time"
)

// promptTracker remembers users who were asked for a custom username
type promptTracker struct {
	mu      sync.Mutex
	pending map[int64]time.Time // user ID -> prompt expiry
	ttl     time.Duration
	now     func() time.Time
}

func newPromptTracker(ttl time.Duration) *promptTracker {
	return &promptTracker{
		pending: make(map[int64]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Begin opens or renews a prompt for userID
func (p *promptTracker) Begin(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sweep()
	p.pending[userID] = p.now().Add(p.ttl)
}

// Take consumes the prompt of userID and reports whether one was open
func (p *promptTracker) Take(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	expiry, ok := p.pending[userID]
	if !ok {
		return false
	}
	delete(p.pending, userID)
	return p.now().Before(expiry)
}

// Cancel drops the prompt of userID and reports whether one was open
func (p *promptTracker) Cancel(userID int64) bool {
	return p.Take(userID)
}

// sweep drops expired prompts. Caller holds mu.
func (p *promptTracker) sweep() {
	now := p.now()
	for userID, expiry := range p.pending {
		if !now.Before(expiry) {
			delete(p.pending, userID)
		}
	}
}
