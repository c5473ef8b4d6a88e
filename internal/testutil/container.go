// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MongoContainer wraps a MongoDB testcontainer.
type MongoContainer struct {
	*mongodb.MongoDBContainer
	ConnectionString string
}

// NewMongoContainer creates a new MongoDB container for testing.
func NewMongoContainer(ctx context.Context) (*MongoContainer, error) {
	container, err := mongodb.Run(ctx,
		"mongo:7",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start mongodb container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &MongoContainer{
		MongoDBContainer: container,
		ConnectionString: connStr,
	}, nil
}
