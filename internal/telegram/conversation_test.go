package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromptTracker(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := newPromptTracker(10 * time.Minute)
	p.now = func() time.Time { return now }

	t.Run("take consumes prompt", func(t *testing.T) {
		p.Begin(1)
		assert.True(t, p.Take(1))
		assert.False(t, p.Take(1))
	})

	t.Run("users are independent", func(t *testing.T) {
		p.Begin(1)
		assert.False(t, p.Take(2))
		assert.True(t, p.Take(1))
	})

	t.Run("expired prompt", func(t *testing.T) {
		p.Begin(1)
		now = now.Add(10 * time.Minute)
		assert.False(t, p.Take(1))
	})

	t.Run("cancel", func(t *testing.T) {
		p.Begin(3)
		assert.True(t, p.Cancel(3))
		assert.False(t, p.Cancel(3))
	})

	t.Run("begin sweeps expired prompts", func(t *testing.T) {
		p.Begin(4)
		now = now.Add(time.Hour)
		p.Begin(5)
		assert.NotContains(t, p.pending, int64(4))
		assert.Contains(t, p.pending, int64(5))
	})
}
