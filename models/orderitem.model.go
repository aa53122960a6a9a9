package models

import "github.com/shopspring/decimal"

// OrderItem is one product line within an order. UnitPrice is snapshotted
// when the line is created; later catalog price changes do not touch it.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// LineTotal is quantity times the snapshotted unit price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
