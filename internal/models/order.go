package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an append-only ledger entry for an executed restock order line.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	ProductName     string          `json:"product_name" gorm:"not null;index"`
	QuantityOrdered int             `json:"quantity_ordered" gorm:"not null"`
	UnitCost        decimal.Decimal `json:"unit_cost" gorm:"type:numeric(10,2)"`
	TotalCost       decimal.Decimal `json:"total_cost" gorm:"type:numeric(12,2)"`
	OrderDate       time.Time       `json:"order_date" gorm:"type:date;not null;index"`
	DeliveryDate    *time.Time      `json:"delivery_date" gorm:"type:date"`
	Status          string          `json:"status" gorm:"default:'pending';index"` // pending, approved, rejected
	ReviewedBy      string          `json:"reviewed_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderApproved OrderStatus = "approved"
	OrderRejected OrderStatus = "rejected"
)
