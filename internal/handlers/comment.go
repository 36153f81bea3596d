package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/prudhivi99/shopsys-go/internal/models"
)

type ReviewStore interface {
	Add(ctx context.Context, review *models.Review) (primitive.ObjectID, error)
	ListByProduct(ctx context.Context, productID int) ([]models.Review, error)
}

type CommentHandler struct {
	reviews ReviewStore
}

func NewCommentHandler(reviews ReviewStore) *CommentHandler {
	return &CommentHandler{reviews: reviews}
}

// AddComment stores a comment and rating for a product
func (h *CommentHandler) AddComment(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    req.UserID,
		Comment:   req.Comment,
		Rating:    req.Rating,
	}

	id, err := h.reviews.Add(c.Request.Context(), review)
	if err != nil {
		log.Printf("❌ Failed to add comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Comment added successfully",
		"comment_id": id.Hex(),
	})
}

// ListComments returns all comments for a product
func (h *CommentHandler) ListComments(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		log.Printf("❌ Failed to list comments for product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	c.JSON(http.StatusOK, reviews)
}
