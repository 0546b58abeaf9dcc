package utils

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo      bool      `json:"mongo"`
	CacheRedis bool      `json:"cacheRedis"`
	LockRedis  bool      `json:"lockRedis"`
	CheckedAt  time.Time `json:"checkedAt"`
}

// Healthy reports whether every dependency answered the last probe.
func (h HealthStatus) Healthy() bool {
	return h.Mongo && h.CacheRedis && h.LockRedis
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(mongoClient *mongo.Client) {
	probe := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status := HealthStatus{
			Mongo:      mongoClient.Ping(ctx, nil) == nil,
			CacheRedis: GetCacheClient().Ping(ctx).Err() == nil,
			LockRedis:  GetLockClient().Ping(ctx).Err() == nil,
			CheckedAt:  time.Now().UTC(),
		}

		healthMu.Lock()
		currentHealth = status
		healthMu.Unlock()
	}

	probe()
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			probe()
		}
	}()
}
