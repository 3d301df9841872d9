package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the order workflow and inventory store
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrGatewayFailure     = errors.New("payment gateway failure")
)

// ValidationError reports missing or malformed checkout input. Field names
// the offending input so the storefront can surface it inline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsufficientStockError is returned when a product cannot cover the
// requested quantity. The product name is included so the shopper sees
// which item blocked the checkout.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s is out of stock or insufficient stock", e.ProductName)
}

// InvalidTransitionError is returned when an admin requests an order
// status change the lifecycle does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.From, e.To)
}
