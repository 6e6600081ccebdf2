package usecase

import (
	"context"
	"encoding/json"
	"time"

	"mycomentor/pkg/envdata"
	"mycomentor/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const readingCacheTTL = 30 * time.Minute

// EnvDataFetcher is the environmental-data service client surface the
// monitor needs.
type EnvDataFetcher interface {
	Fetch(ctx context.Context, latitude, longitude float64, fallback bool) (*envdata.Reading, error)
}

// Monitor polls the environmental-data service on a fixed interval, caches
// the latest reading for the dashboard and runs the alert rules for every
// active user store.
type Monitor struct {
	client      EnvDataFetcher
	manager     *Manager
	redisClient *redis.Client
	log         *logger.Logger

	latitude  float64
	longitude float64
	interval  time.Duration
}

func NewMonitor(client EnvDataFetcher, manager *Manager, redisClient *redis.Client, log *logger.Logger, latitude, longitude float64, interval time.Duration) *Monitor {
	return &Monitor{
		client:      client,
		manager:     manager,
		redisClient: redisClient,
		log:         log,
		latitude:    latitude,
		longitude:   longitude,
		interval:    interval,
	}
}

// Start polls until done is closed. The first poll happens immediately.
func (m *Monitor) Start(done <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poll()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reading, err := m.client.Fetch(ctx, m.latitude, m.longitude, false)
	if err != nil {
		m.log.Warn("Live sensor fetch failed, retrying with fallback: %v", err)
		reading, err = m.client.Fetch(ctx, m.latitude, m.longitude, true)
		if err != nil {
			m.log.Error("Environmental data fetch failed: %v", err)
			return
		}
	}

	m.cacheReading(ctx, reading)

	for _, userID := range m.manager.Users() {
		m.manager.ForUser(userID).CheckEnvironmentalConditions(*reading)
	}
}

func (m *Monitor) cacheReading(ctx context.Context, reading *envdata.Reading) {
	if m.redisClient == nil {
		return
	}

	raw, err := json.Marshal(reading)
	if err != nil {
		m.log.Error("Failed to encode reading: %v", err)
		return
	}

	if err := m.redisClient.Set(ctx, LatestReadingKey, raw, readingCacheTTL).Err(); err != nil {
		m.log.Warn("Failed to cache latest reading: %v", err)
	}
}
