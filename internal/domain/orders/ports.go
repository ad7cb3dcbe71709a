package orders

import "context"

// Repository defines persistence operations for orders
type Repository interface {
	// Save persists a new order or updates an existing one
	Save(ctx context.Context, order *Order) error

	// FindByID retrieves an order by its ID
	FindByID(ctx context.Context, id OrderID) (*Order, error)

	// List retrieves orders matching the given options, newest first
	List(ctx context.Context, opts ListOptions) ([]*Order, error)
}

// ListOptions defines filtering and pagination for order listings
type ListOptions struct {
	// Status filters by lifecycle state when set
	Status *OrderStatus

	// Pagination
	Limit  int
	Offset int
}

// DefaultListOptions returns the default listing window
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 50, Offset: 0}
}

// PaymentGateway defines the charge operation the order workflow depends on.
// Implementations return *ErrPaymentDeclined when the provider rejects the
// charge, and the reference of the captured payment otherwise
type PaymentGateway interface {
	Charge(ctx context.Context, order *Order) (paymentRef string, err error)
}
