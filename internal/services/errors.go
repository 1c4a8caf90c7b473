// internal/services/errors.go
package services

import "errors"

// Domain errors. Handlers match these with errors.Is to pick the HTTP status;
// all of them are detected before any write, or the enclosing transaction is
// rolled back.
var (
	ErrNotFound          = errors.New("record not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDuplicateReview   = errors.New("you have already reviewed this product")
	ErrInvalidTransition = errors.New("order can no longer change state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus     = errors.New("invalid order status")
)
