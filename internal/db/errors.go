package db

import "errors"

var (
	// ErrInvalidProduct means a referenced product does not exist.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInsufficientStock means a requested quantity exceeds the available
	// stock, either at submission time or at fulfillment time.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrAlreadyProcessed means a fulfillment message was redelivered for an
	// order that has already been processed.
	ErrAlreadyProcessed = errors.New("order already processed")

	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateUsername = errors.New("username already taken")
)
