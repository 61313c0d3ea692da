package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Pinger is a dependency whose liveness can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

func RedisPinger(c *redis.Client) Pinger {
	return PingFunc(func(ctx context.Context) error { return c.Ping(ctx).Err() })
}

func MongoPinger(c *mongo.Client) Pinger {
	return PingFunc(func(ctx context.Context) error { return c.Ping(ctx, nil) })
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every service once and stores the snapshot.
func CheckHealth(ctx context.Context, services map[string]Pinger, logger *zap.Logger) HealthStatus {
	status := HealthStatus{Healthy: true, Services: make(map[string]bool, len(services))}
	for name, p := range services {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := p.Ping(pctx)
		cancel()
		status.Services[name] = err == nil
		if err != nil {
			status.Healthy = false
			logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
		}
	}
	status.CheckedAt = time.Now()

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor checks services now and then every interval until ctx ends.
func StartHealthMonitor(ctx context.Context, services map[string]Pinger, interval time.Duration, logger *zap.Logger) {
	CheckHealth(ctx, services, logger)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, services, logger)
			}
		}
	}()
}
