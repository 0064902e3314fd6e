package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// serverSelectionTimeout bounds how long the driver waits for a reachable
// server before a connection attempt fails.
const serverSelectionTimeout = 30 * time.Second

// Connect establishes and verifies a MongoDB connection. The returned client
// is shared process-wide by injection; there is no package-level state.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, serverSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	return client, nil
}

// Disconnect closes the connection (call in main defer).
func Disconnect(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}
