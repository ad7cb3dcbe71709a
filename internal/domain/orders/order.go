package orders

import (
	"fmt"
	"strings"
	"time"
)

// Order is the aggregate root representing one customer order.
// State changes go through MarkPaid and Cancel; fields never mutate directly
type Order struct {
	id             OrderID
	customerEmail  string
	sku            string
	quantity       int
	unitPriceCents int
	status         OrderStatus
	paymentRef     string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewOrder creates a pending order with validation
func NewOrder(customerEmail, sku string, quantity, unitPriceCents int, now time.Time) (*Order, error) {
	if strings.TrimSpace(customerEmail) == "" {
		return nil, &ErrInvalidOrder{Field: "customer_email", Reason: "customer_email cannot be empty"}
	}
	if strings.TrimSpace(sku) == "" {
		return nil, &ErrInvalidOrder{Field: "sku", Reason: "sku cannot be empty"}
	}
	if quantity <= 0 {
		return nil, &ErrInvalidOrder{Field: "quantity", Reason: fmt.Sprintf("quantity must be positive, got %d", quantity)}
	}
	if unitPriceCents <= 0 {
		return nil, &ErrInvalidOrder{Field: "unit_price_cents", Reason: fmt.Sprintf("unit price must be positive, got %d", unitPriceCents)}
	}

	return &Order{
		id:             NewOrderID(),
		customerEmail:  customerEmail,
		sku:            sku,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
		status:         StatusPending,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructOrder rebuilds an order from persistence, bypassing creation
// validation. Used by repositories only
func ReconstructOrder(
	id OrderID,
	customerEmail string,
	sku string,
	quantity int,
	unitPriceCents int,
	status OrderStatus,
	paymentRef string,
	createdAt time.Time,
	updatedAt time.Time,
) *Order {
	return &Order{
		id:             id,
		customerEmail:  customerEmail,
		sku:            sku,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
		status:         status,
		paymentRef:     paymentRef,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// MarkPaid records a captured payment. Only pending orders can be paid
func (o *Order) MarkPaid(paymentRef string, now time.Time) error {
	if o.status != StatusPending {
		return &ErrInvalidStatusTransition{ID: o.id.String(), From: o.status, To: StatusPaid}
	}
	if paymentRef == "" {
		return &ErrInvalidOrder{Field: "payment_ref", Reason: "payment_ref cannot be empty"}
	}

	o.status = StatusPaid
	o.paymentRef = paymentRef
	o.updatedAt = now
	return nil
}

// Cancel moves the order to cancelled. Cancelling twice is an error
func (o *Order) Cancel(now time.Time) error {
	if o.status == StatusCancelled {
		return &ErrInvalidStatusTransition{ID: o.id.String(), From: o.status, To: StatusCancelled}
	}

	o.status = StatusCancelled
	o.updatedAt = now
	return nil
}

// TotalCents returns the order total in cents
func (o *Order) TotalCents() int {
	return o.quantity * o.unitPriceCents
}

// Getters (state is only mutated through behavior methods)

func (o *Order) ID() OrderID {
	return o.id
}

func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

func (o *Order) SKU() string {
	return o.sku
}

func (o *Order) Quantity() int {
	return o.quantity
}

func (o *Order) UnitPriceCents() int {
	return o.unitPriceCents
}

func (o *Order) Status() OrderStatus {
	return o.status
}

func (o *Order) PaymentRef() string {
	return o.paymentRef
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// String provides a human-readable representation
func (o *Order) String() string {
	return fmt.Sprintf("Order[%s, sku=%s, qty=%d, total=%d, status=%s]",
		o.id.String(), o.sku, o.quantity, o.TotalCents(), o.status)
}
