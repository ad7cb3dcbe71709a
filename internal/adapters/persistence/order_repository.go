package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/mediator-go/internal/domain/orders"
)

// GormOrderRepository implements orders.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save persists an order, inserting or updating by primary key
func (r *GormOrderRepository) Save(ctx context.Context, order *orders.Order) error {
	model := r.orderToModel(order)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save order: %w", result.Error)
	}

	return nil
}

// FindByID retrieves an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id orders.OrderID) (*orders.Order, error) {
	var model OrderModel
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		First(&model)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, &orders.ErrOrderNotFound{ID: id.String()}
		}
		return nil, fmt.Errorf("failed to find order: %w", result.Error)
	}

	return r.modelToOrder(&model)
}

// List retrieves orders matching the given options, newest first
func (r *GormOrderRepository) List(ctx context.Context, opts orders.ListOptions) ([]*orders.Order, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{})

	if opts.Status != nil {
		query = query.Where("status = ?", opts.Status.String())
	}

	query = query.Order("created_at DESC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []OrderModel
	result := query.Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list orders: %w", result.Error)
	}

	list := make([]*orders.Order, len(models))
	for i, model := range models {
		order, err := r.modelToOrder(&model)
		if err != nil {
			return nil, fmt.Errorf("failed to convert order model: %w", err)
		}
		list[i] = order
	}

	return list, nil
}

// modelToOrder converts database model to domain entity
func (r *GormOrderRepository) modelToOrder(model *OrderModel) (*orders.Order, error) {
	id, err := orders.ParseOrderID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID in database: %w", err)
	}

	status, err := orders.ParseOrderStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid order status in database: %w", err)
	}

	return orders.ReconstructOrder(
		id,
		model.CustomerEmail,
		model.SKU,
		model.Quantity,
		model.UnitPriceCents,
		status,
		model.PaymentRef,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

// orderToModel converts domain entity to database model
func (r *GormOrderRepository) orderToModel(order *orders.Order) *OrderModel {
	return &OrderModel{
		ID:             order.ID().String(),
		CustomerEmail:  order.CustomerEmail(),
		SKU:            order.SKU(),
		Quantity:       order.Quantity(),
		UnitPriceCents: order.UnitPriceCents(),
		Status:         order.Status().String(),
		PaymentRef:     order.PaymentRef(),
		CreatedAt:      order.CreatedAt(),
		UpdatedAt:      order.UpdatedAt(),
	}
}
