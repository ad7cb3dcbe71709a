package orders

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	// StatusPending represents an order placed but not yet paid
	StatusPending OrderStatus = "PENDING"

	// StatusPaid represents an order whose payment was captured
	StatusPaid OrderStatus = "PAID"

	// StatusCancelled represents an order cancelled by the customer
	StatusCancelled OrderStatus = "CANCELLED"
)

// AllStatuses returns every valid order status
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusPaid, StatusCancelled}
}

// String returns the string representation of the OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the known states
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus parses a string into an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", &ErrInvalidOrder{Field: "status", Reason: "unknown status: " + s}
	}
	return status, nil
}
