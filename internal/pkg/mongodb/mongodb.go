// Package mongodb provides MongoDB connection utilities.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Config contains MongoDB connection configuration.
type Config struct {
	URI             string
	ConnectAttempts int
	PoolMonitor     *event.PoolMonitor
}

// Connect establishes a MongoDB client with retry logic. Each attempt is
// verified with a primary ping before the client is handed out.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.PoolMonitor != nil {
		opts = opts.SetPoolMonitor(cfg.PoolMonitor)
	}

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := mongo.Connect(opts)
		if err != nil {
			lastErr = err
		} else if err = client.Ping(ctx, readpref.Primary()); err != nil {
			lastErr = err
			_ = client.Disconnect(ctx)
		} else {
			slog.Info("connected to mongodb", "attempts", attempt)
			return client, nil
		}

		if attempt < attempts {
			backoff := calcBackoff(attempt)
			slog.Warn("failed to connect to mongodb, retrying",
				"attempt", attempt,
				"max_attempts", attempts,
				"backoff", backoff,
				"error", lastErr,
			)
			if !sleep(ctx, backoff) {
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("connect to mongodb after %d attempts: %w", attempts, lastErr)
}

// calcBackoff returns exponential backoff duration capped at 16 seconds.
func calcBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<(attempt-1)) * time.Second
	if backoff > 16*time.Second {
		backoff = 16 * time.Second
	}
	return backoff
}

// sleep waits for duration or context cancellation. Returns false if cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
