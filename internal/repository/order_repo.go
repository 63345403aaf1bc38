package repository

import (
	"context"
	"errors"

	"order17vat/internal/model"
	"order17vat/pkg/grid"

	"gorm.io/gorm"
)

// OrderGridColumns are the base columns selected by the order grid query
var OrderGridColumns = []string{
	"o.id_order",
	"o.reference",
	"o.customer_name",
	"o.total_paid",
	"o.optin",
	"o.date_add",
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	Exists(ctx context.Context, id uint) (bool, error)
	GridQuery(ctx context.Context) *grid.Query
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	res := GetDB(ctx, r.db).Where("id_order = ?", id).Delete(&model.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).First(&order, "id_order = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Order{}).Where("id_order = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GridQuery starts the order list query; the orders table is aliased "o"
func (r *orderRepository) GridQuery(ctx context.Context) *grid.Query {
	return grid.NewQuery(GetDB(ctx, r.db).Table("orders AS o"), OrderGridColumns...)
}
