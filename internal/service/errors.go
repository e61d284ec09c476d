package service

import "errors"

// Sentinel errors returned to direct callers. The bus never inspects them;
// during event fan-out they are logged and absorbed.
var (
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("wrong password")
	ErrItemExists        = errors.New("item already exists")
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrAdminRequired     = errors.New("admin role required")
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
	ErrInvalidPrice      = errors.New("price must be a positive number")
)
