package utils

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/db"
)

var testMongoURI string

func init() {
	loadTestEnv()
}

// loadTestEnv loads the .env file and reads the test database URI.
func loadTestEnv() {
	_, filename, _, _ := runtime.Caller(0)
	// Try to load .env from project root (2 levels up from this file)
	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err != nil {
		godotenv.Load()
	}

	testMongoURI = os.Getenv("MONGO_URI_TEST")
}

// SetupTestDB connects to the test MongoDB, drops the named collections and
// creates the application indexes. Tests are skipped when MONGO_URI_TEST is unset.
func SetupTestDB(t *testing.T, dbName string, collections ...string) *mongo.Database {
	t.Helper()
	if testMongoURI == "" {
		t.Skip("MONGO_URI_TEST not set, skipping MongoDB test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(testMongoURI))
	require.NoError(t, err, "Failed to connect to MongoDB")
	require.NoError(t, client.Ping(ctx, nil), "Failed to ping MongoDB")
	database := client.Database(dbName)

	for _, collection := range collections {
		_ = database.Collection(collection).Drop(ctx)
	}
	require.NoError(t, db.EnsureIndexes(ctx, database))

	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return database
}
