package model

// VatFlag marks whether the 17% VAT rate applies to an order.
// At most one row exists per order; no row reads as IsVat17 = false.
type VatFlag struct {
	ID      uint `gorm:"column:id_vat17;primaryKey;autoIncrement" json:"id_vat17"`
	OrderID uint `gorm:"column:id_order;not null;uniqueIndex:uniq_order17vat_order" json:"id_order"`
	IsVat17 bool `gorm:"column:is_vat_17;not null" json:"is_vat_17"`
}

func (VatFlag) TableName() string { return "order17vat" }
