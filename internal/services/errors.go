package services

import "errors"

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrItemNotFound           = errors.New("order item not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrAlreadyExecuted        = errors.New("recommendation already executed")
	ErrNoOrderItems           = errors.New("recommendation has no order items")
	ErrInvalidQuantity        = errors.New("order quantity must be greater than zero")
	ErrProductNotInInventory  = errors.New("product not found in inventory")
)
