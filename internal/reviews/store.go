// Package reviews is a pass-through store for product comments in MongoDB.
package reviews

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prudhivi99/shopsys-go/internal/models"
)

const collectionName = "reviews"

// Connect opens a MongoDB client and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("✅ Connected to MongoDB")
	return client, nil
}

type Store struct {
	coll *mongo.Collection
}

func NewStore(client *mongo.Client, dbName string) *Store {
	return &Store{coll: client.Database(dbName).Collection(collectionName)}
}

// Add inserts a review and returns its generated id
func (s *Store) Add(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	review.CreatedAt = time.Now()

	result, err := s.coll.InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert review: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	return id, nil
}

// ListByProduct returns all reviews for a product, newest first
func (s *Store) ListByProduct(ctx context.Context, productID int) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}
