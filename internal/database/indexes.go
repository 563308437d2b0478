package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	categoryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("category_index"),
	}

	log.Println("EnsureProductIndexes: creating category_index index")
	_, err := indexes.CreateOne(ctx, categoryIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: category index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: category_index index created")
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_createdAt_index"),
	}

	log.Println("EnsureOrderIndexes: creating user_createdAt_index index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: user index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: user_createdAt_index index created")
	return nil
}

// EnsureTrackingIndexes backs the two tracking invariants: one record per
// order, and globally unique tracking numbers (the collision retry in order
// submission relies on this index).
func EnsureTrackingIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("order_tracking").Indexes()

	orderIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().
			SetName("orderId_unique").
			SetUnique(true),
	}

	trackingNumberIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "trackingNumber", Value: 1}},
		Options: options.Index().
			SetName("trackingNumber_unique").
			SetUnique(true),
	}

	log.Println("EnsureTrackingIndexes: creating orderId_unique and trackingNumber_unique indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{orderIDIndex, trackingNumberIndex})
	if err != nil {
		log.Println("EnsureTrackingIndexes: index error:", err)
		return err
	}
	log.Println("EnsureTrackingIndexes: tracking indexes created")
	return nil
}
