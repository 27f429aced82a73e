package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSweeper struct {
	calls int
	ids   []int64
	err   error
}

func (s *stubSweeper) Sweep(ctx context.Context, now time.Time) ([]int64, error) {
	s.calls++
	return s.ids, s.err
}

func TestNewScheduler(t *testing.T) {
	t.Run("AcceptsDescriptorSchedule", func(t *testing.T) {
		s, err := NewScheduler("@every 1m", &stubSweeper{}, nil)
		assert.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("RejectsGarbageSchedule", func(t *testing.T) {
		_, err := NewScheduler("not a schedule", &stubSweeper{}, nil)
		assert.Error(t, err)
	})
}

func TestRunSweep(t *testing.T) {
	t.Run("InvokesSweeper", func(t *testing.T) {
		sweeper := &stubSweeper{ids: []int64{1, 2}}
		s, err := NewScheduler("@every 1m", sweeper, nil)
		assert.NoError(t, err)

		s.runSweep()

		assert.Equal(t, 1, sweeper.calls)
	})

	t.Run("SweepErrorDoesNotPanic", func(t *testing.T) {
		sweeper := &stubSweeper{err: errors.New("db down")}
		s, err := NewScheduler("@every 1m", sweeper, nil)
		assert.NoError(t, err)

		assert.NotPanics(t, s.runSweep)
		assert.Equal(t, 1, sweeper.calls)
	})
}
