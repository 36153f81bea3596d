package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prudhivi99/shopsys-go/internal/auth"
	"github.com/prudhivi99/shopsys-go/internal/db"
	"github.com/prudhivi99/shopsys-go/internal/models"
)

type UserStore interface {
	Create(username, passwordHash string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

type SessionSaver interface {
	Save(ctx context.Context, userID int, token string) error
}

type AuthHandler struct {
	users    UserStore
	sessions SessionSaver
	tokens   *auth.TokenManager
}

func NewAuthHandler(users UserStore, sessions SessionSaver, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Register creates a new user with a bcrypt-hashed password
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user, err := h.users.Create(req.Username, hash)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		log.Printf("❌ Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// Login verifies credentials, issues a token and stores it as the user's
// active session
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByUsername(req.Username)
	if err != nil {
		log.Printf("❌ Failed to look up user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("❌ Failed to issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if err := h.sessions.Save(c.Request.Context(), user.ID, token); err != nil {
		log.Printf("❌ Failed to store session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// Profile returns the authenticated user's id. Guarded by auth.Middleware.
func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile data",
		"user_id": c.GetInt(auth.ContextUserKey),
	})
}
