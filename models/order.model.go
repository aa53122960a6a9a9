package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. A "pending" order doubles as the user's active cart;
// every other status is an immutable purchase record.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	OrderStatus string          `gorm:"size:20;not null;default:'pending'" json:"order_status"`
	OrderDate   time.Time       `json:"order_date"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	ShippingAddress *string `gorm:"type:text" json:"shipping_address"`
	BillingAddress  *string `gorm:"type:text" json:"billing_address"`

	OrderItems []OrderItem `json:"order_items,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) IsPending() bool {
	return o.OrderStatus == OrderStatusPending
}
