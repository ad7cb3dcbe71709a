package orders

import "fmt"

// ErrInvalidOrder represents validation errors for orders
type ErrInvalidOrder struct {
	Field  string
	Reason string
}

func (e *ErrInvalidOrder) Error() string {
	return fmt.Sprintf("invalid order: %s - %s", e.Field, e.Reason)
}

// ErrOrderNotFound represents errors when an order cannot be found
type ErrOrderNotFound struct {
	ID string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("order not found: %s", e.ID)
}

// ErrInvalidStatusTransition represents a forbidden order state change
type ErrInvalidStatusTransition struct {
	ID   string
	From OrderStatus
	To   OrderStatus
}

func (e *ErrInvalidStatusTransition) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.ID, e.From, e.To)
}

// ErrPaymentDeclined represents a charge rejected by the payment provider
type ErrPaymentDeclined struct {
	OrderID string
	Reason  string
}

func (e *ErrPaymentDeclined) Error() string {
	return fmt.Sprintf("payment declined for order %s: %s", e.OrderID, e.Reason)
}
