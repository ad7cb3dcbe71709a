package orders

import (
	"fmt"

	"github.com/google/uuid"
)

// OrderID is a value object identifying one order
type OrderID struct {
	value string
}

// NewOrderID creates an OrderID with a generated UUID
func NewOrderID() OrderID {
	return OrderID{value: uuid.New().String()}
}

// ParseOrderID creates an OrderID from an existing UUID string
func ParseOrderID(id string) (OrderID, error) {
	if id == "" {
		return OrderID{}, &ErrInvalidOrder{Field: "order_id", Reason: "order_id cannot be empty"}
	}

	if _, err := uuid.Parse(id); err != nil {
		return OrderID{}, &ErrInvalidOrder{Field: "order_id", Reason: fmt.Sprintf("invalid order_id format: %s", id)}
	}

	return OrderID{value: id}, nil
}

// MustParseOrderID creates an OrderID from a string, panicking if invalid.
// Use only for IDs that are already known to be valid (e.g., from the database)
func MustParseOrderID(id string) OrderID {
	oid, err := ParseOrderID(id)
	if err != nil {
		panic(err)
	}
	return oid
}

// String returns the string value of the OrderID
func (id OrderID) String() string {
	return id.value
}

// Equals checks if two OrderIDs identify the same order
func (id OrderID) Equals(other OrderID) bool {
	return id.value == other.value
}

// IsZero checks if the OrderID is uninitialized
func (id OrderID) IsZero() bool {
	return id.value == ""
}
