// utils/db.go
package utils

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseName is the mongo database all collections live in.
const DatabaseName = "zaymart"

// ConnectDB connects to MongoDB using MONGO_URI and verifies the connection.
func ConnectDB() *mongo.Client {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		Logger.Fatalw("failed to connect to mongodb", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		Logger.Fatalw("failed to ping mongodb", "error", err)
	}

	Logger.Infow("connected to mongodb", "database", DatabaseName)
	return client
}

// EnsureIndexes creates the indexes the application relies on. The unique
// sparse index on internal_tracking_number is the actual uniqueness guarantee
// for generated tracking codes; the application-level retry loop only avoids
// needless insert failures.
func EnsureIndexes(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db := client.Database(DatabaseName)

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "internal_tracking_number", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("otps").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// TTL: mongo removes the record once expires_at passes.
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "is_used", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("reviews").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "product", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
