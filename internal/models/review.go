package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a product comment stored in MongoDB.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID int                `bson:"product_id" json:"product_id"`
	UserID    int                `bson:"user_id" json:"user_id"`
	Comment   string             `bson:"comment" json:"comment"`
	Rating    int                `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type CreateReviewRequest struct {
	UserID  int    `json:"user_id" binding:"required"`
	Comment string `json:"comment" binding:"required"`
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
}
