package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/prudhivi99/shopsys-go/internal/models"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(database *PostgresDB) *UserRepository {
	return &UserRepository{db: database.Conn}
}

// Create inserts a new user with an already-hashed password
func (r *UserRepository) Create(username, passwordHash string) (*models.User, error) {
	query := `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, username, created_at`

	var u models.User
	err := r.db.QueryRow(query, username, passwordHash).
		Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

// GetByUsername returns a user with the password hash, nil when not found
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`

	var u models.User
	err := r.db.QueryRow(query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}
