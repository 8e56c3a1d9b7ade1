package models

import "github.com/shopspring/decimal"

const (
	OrderPending = "pending"
	OrderPaid    = "paid"
)

type Order struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status      string          `gorm:"size:50;not null;default:pending" json:"status"`
	SaleSource  string          `gorm:"size:100" json:"sale_source"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	Base
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_purchase"`
}

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// ValidPaymentStatus reports whether s is one of the four payment states.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Payment struct {
	Base
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        string          `gorm:"size:20;not null" json:"status"`
}
