package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names.
const (
	UsersCollection      = "users"
	PropertiesCollection = "properties"
	MessagesCollection   = "messages"
)

// EmailIndex is the unique index on users.email.
const EmailIndex = "email_1"

// ConnectDB initializes and returns a MongoDB client and database instance.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	zap.L().Info("connected to MongoDB", zap.String("database", dbName))
	return client, client.Database(dbName), nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	zap.L().Info("MongoDB connection closed")
	return nil
}

// EnsureIndexes creates the indexes the services rely on. The unique email
// index is what makes concurrent registrations with the same address fail.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(EmailIndex)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		PropertiesCollection: {
			{Keys: bson.D{{Key: "agent", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		MessagesCollection: {
			{Keys: bson.D{{Key: "agentId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "propertyId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
