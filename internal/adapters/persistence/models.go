package persistence

import (
	"time"
)

// OrderModel represents the orders table
type OrderModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	CustomerEmail  string    `gorm:"column:customer_email;index;not null"`
	SKU            string    `gorm:"column:sku;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Status         string    `gorm:"column:status;index;not null"`
	PaymentRef     string    `gorm:"column:payment_ref"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (OrderModel) TableName() string {
	return "orders"
}
