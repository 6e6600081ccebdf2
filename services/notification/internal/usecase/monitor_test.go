package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"mycomentor/pkg/envdata"
	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	reading      *envdata.Reading
	liveErr      error
	fallbackErr  error
	liveCalls    int
	fallbackUsed int
}

func (f *fakeFetcher) Fetch(ctx context.Context, latitude, longitude float64, fallback bool) (*envdata.Reading, error) {
	if fallback {
		f.fallbackUsed++
		if f.fallbackErr != nil {
			return nil, f.fallbackErr
		}
		return f.reading, nil
	}
	f.liveCalls++
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	return f.reading, nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager := NewManager(kvstore.NewMemoryStore(), logger.New(), DefaultThresholds(), nil)
	t.Cleanup(manager.Close)
	return manager
}

func TestMonitor_PollAlertsActiveUsers(t *testing.T) {
	manager := newTestManager(t)
	manager.ForUser("grower-1")
	manager.ForUser("grower-2")

	fetcher := &fakeFetcher{reading: &envdata.Reading{Temperature: "30", Humidity: "80", PH: "6"}}
	monitor := NewMonitor(fetcher, manager, nil, logger.New(), 6.9271, 79.8612, time.Minute)

	monitor.poll()

	assert.Equal(t, 1, fetcher.liveCalls)
	assert.Equal(t, 0, fetcher.fallbackUsed)
	for _, userID := range []string{"grower-1", "grower-2"} {
		list := manager.ForUser(userID).List()
		assert.Len(t, list, 1)
		assert.Equal(t, "High Temperature Alert", list[0].Title)
	}
}

func TestMonitor_PollRetriesWithFallback(t *testing.T) {
	manager := newTestManager(t)
	manager.ForUser("grower-1")

	fetcher := &fakeFetcher{
		reading: &envdata.Reading{Humidity: "50"},
		liveErr: errors.New("sensors offline"),
	}
	monitor := NewMonitor(fetcher, manager, nil, logger.New(), 6.9271, 79.8612, time.Minute)

	monitor.poll()

	assert.Equal(t, 1, fetcher.fallbackUsed)
	list := manager.ForUser("grower-1").List()
	assert.Len(t, list, 1)
	assert.Equal(t, "Low Humidity Alert", list[0].Title)
}

func TestMonitor_PollGivesUpWhenFallbackFails(t *testing.T) {
	manager := newTestManager(t)
	manager.ForUser("grower-1")

	fetcher := &fakeFetcher{
		liveErr:     errors.New("sensors offline"),
		fallbackErr: errors.New("upstream down"),
	}
	monitor := NewMonitor(fetcher, manager, nil, logger.New(), 6.9271, 79.8612, time.Minute)

	monitor.poll()

	assert.Empty(t, manager.ForUser("grower-1").List())
}

func TestMonitor_StartStopsOnDone(t *testing.T) {
	manager := newTestManager(t)
	fetcher := &fakeFetcher{reading: &envdata.Reading{Temperature: "20"}}
	monitor := NewMonitor(fetcher, manager, nil, logger.New(), 6.9271, 79.8612, time.Hour)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		monitor.Start(done)
		close(stopped)
	}()

	close(done)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}

	assert.Equal(t, 1, fetcher.liveCalls)
}
