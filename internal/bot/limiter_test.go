package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 10))
}

func TestLimiter_AllowAndCleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))

	now = now.Add(time.Second)
	assert.True(t, l.Allow(1))

	now = now.Add(time.Hour)
	assert.True(t, l.Allow(2))
	assert.Equal(t, 1, l.Cleanup(time.Minute))
}
