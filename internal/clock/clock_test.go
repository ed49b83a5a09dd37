package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClockNow(t *testing.T) {
	before := time.Now()
	got := RealClock{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestFixedClock(t *testing.T) {
	frozen := time.Date(2026, 1, 27, 9, 0, 0, 0, time.UTC)
	c := Fixed(frozen)

	assert.Equal(t, frozen, c.Now())
	assert.Equal(t, frozen, c.Now(), "fixed clock must not advance")
}
