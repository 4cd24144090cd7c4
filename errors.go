package clob

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrMissingPrice    = errors.New("limit orders must have a price")
	ErrDuplicateOrder  = errors.New("order already exists in the book")
	ErrTimeout         = errors.New("timeout")
	ErrOverFill        = errors.New("fill exceeds remaining quantity")
)
