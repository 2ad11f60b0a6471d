package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct{ calls atomic.Int32 }

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func TestHousekeepingRejectsBadSchedule(t *testing.T) {
	h := NewHousekeeping(zerolog.Nop())
	assert.Error(t, h.SweepSessions("every now and then", &countingSweeper{}))
}

func TestHousekeepingRunsSweep(t *testing.T) {
	h := NewHousekeeping(zerolog.Nop())
	s := &countingSweeper{}
	require.NoError(t, h.SweepSessions("@every 1s", s))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	<-done
}
