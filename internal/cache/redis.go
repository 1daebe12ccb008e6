package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"antarctic-dashboard/internal/models"
)

const recentKey = "readings:recent"

// RedisMirror keeps a copy of the rolling window in a Redis list so other
// processes can read it. The feed never reads it back.
type RedisMirror struct {
	client   *redis.Client
	capacity int64
	timeout  time.Duration
	log      *slog.Logger
}

func NewRedisMirror(ctx context.Context, addr string, capacity int, log *slog.Logger) (*RedisMirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 1,
		MaxRetries:   3,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisMirror{
		client:   client,
		capacity: int64(capacity),
		timeout:  time.Second,
		log:      log,
	}, nil
}

// StoreReading pushes r to the head of the list and trims it to the window
// capacity.
func (m *RedisMirror) StoreReading(ctx context.Context, r models.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err = m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, recentKey, data)
		pipe.LTrim(ctx, recentKey, 0, m.capacity-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store reading in Redis: %w", err)
	}
	return nil
}

// RecentReadings returns up to count readings, newest first.
func (m *RedisMirror) RecentReadings(ctx context.Context, count int64) ([]models.Reading, error) {
	items, err := m.client.LRange(ctx, recentKey, 0, count-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent readings: %w", err)
	}

	readings := make([]models.Reading, 0, len(items))
	for _, item := range items {
		var r models.Reading
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			continue
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// OnTick mirrors the newest reading of each cycle.
func (m *RedisMirror) OnTick(ctx context.Context, snap models.Snapshot) {
	if err := m.StoreReading(ctx, snap.Latest); err != nil {
		m.log.Warn("failed to mirror reading", "cycle", snap.Cycle, "error", err)
	}
}

func (m *RedisMirror) Close() error {
	return m.client.Close()
}
