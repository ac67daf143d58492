package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questevent/questevent-api/internal/config"
	"github.com/questevent/questevent-api/internal/domain"
)

type countingSettler struct {
	calls atomic.Int32
	err   error
}

func (s *countingSettler) AutoSettleExpiredPrograms(ctx context.Context) (domain.SettlementReport, error) {
	s.calls.Add(1)
	return domain.SettlementReport{Settled: []uint{1}}, s.err
}

// blockingSettler holds every run until release is closed.
type blockingSettler struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *blockingSettler) AutoSettleExpiredPrograms(ctx context.Context) (domain.SettlementReport, error) {
	s.calls.Add(1)
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return domain.SettlementReport{}, nil
}

func TestScheduler_NextRunFollowsCron(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	settler := &countingSettler{}

	s, err := New(&config.SettlementConfig{Enabled: true, Cron: "1 0 * * *", Timezone: "UTC"}, clock, settler)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	s.Start()

	want := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	assert.Eventually(t, func() bool {
		next, err := s.NextRun()
		return err == nil && next.Equal(want)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), settler.calls.Load())
}

func TestScheduler_RunNow(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "success"},
		{name: "failures are logged", err: errors.New("program 3: boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settler := &countingSettler{err: tt.err}

			s, err := New(&config.SettlementConfig{Enabled: true, Cron: "1 0 * * *"}, clockwork.NewRealClock(), settler)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Shutdown() })

			s.Start()
			require.NoError(t, s.RunNow())

			assert.Eventually(t, func() bool {
				return settler.calls.Load() == 1
			}, 2*time.Second, 10*time.Millisecond)
		})
	}
}

func TestNew_InvalidCron(t *testing.T) {
	_, err := New(&config.SettlementConfig{Enabled: true, Cron: "not a cron"}, clockwork.NewRealClock(), &countingSettler{})
	assert.Error(t, err)
}

func TestNew_InvalidTimezone(t *testing.T) {
	_, err := New(&config.SettlementConfig{Enabled: true, Cron: "1 0 * * *", Timezone: "Mars/Olympus"}, clockwork.NewRealClock(), &countingSettler{})
	assert.Error(t, err)
}

func TestScheduler_OverlappingRunIsSkipped(t *testing.T) {
	settler := &blockingSettler{release: make(chan struct{})}

	s, err := New(&config.SettlementConfig{Enabled: true, Cron: "1 0 * * *"}, clockwork.NewRealClock(), settler)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	s.Start()
	require.NoError(t, s.RunNow())
	require.Eventually(t, func() bool {
		return settler.calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// the first run is still holding the job
	require.NoError(t, s.RunNow())
	assert.Never(t, func() bool {
		return settler.calls.Load() > 1
	}, 300*time.Millisecond, 10*time.Millisecond)

	close(settler.release)

	// once the first run has returned the job can run again
	assert.Eventually(t, func() bool {
		if settler.calls.Load() >= 2 {
			return true
		}
		_ = s.RunNow()
		return false
	}, 2*time.Second, 50*time.Millisecond)
}
