package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an order as managed by the admin back office
type Order struct {
	ID           uint            `gorm:"column:id_order;primaryKey;autoIncrement" json:"id_order"`
	Reference    string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"reference"`
	CustomerName string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	TotalPaid    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"total_paid"`
	Optin        bool            `gorm:"not null" json:"optin"`
	CreatedAt    time.Time       `gorm:"column:date_add" json:"date_add"`
	UpdatedAt    time.Time       `gorm:"column:date_upd" json:"date_upd"`
}

func (Order) TableName() string { return "orders" }
