// Package db opens the account database selected by configuration.
package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// UsersCollection is the single collection holding account documents.
const UsersCollection = "users"

// Mongo bundles the client with the users collection.
type Mongo struct {
	Client *mongo.Client
	Users  *mongo.Collection
}

// ConnectMongo dials uri, pings the primary and returns the users collection
// of database name.
func ConnectMongo(ctx context.Context, uri, name string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Printf("Connected to MongoDB database %q", name)

	return &Mongo{
		Client: client,
		Users:  client.Database(name).Collection(UsersCollection),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
