package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	RecommendationID uint            `json:"recommendation_id" gorm:"not null;index"`
	ProductName      string          `json:"product_name" gorm:"not null;index"`
	CurrentStock     int             `json:"current_stock" gorm:"default:0"`
	SafeStock        int             `json:"safe_stock" gorm:"default:0"`
	OrderQuantity    int             `json:"order_quantity" gorm:"not null"`
	UnitPrice        decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);default:0"`
	TotalCost        decimal.Decimal `json:"total_cost" gorm:"type:numeric(12,2);default:0"`
	Reason           string          `json:"reason" gorm:"type:text"`
	Priority         string          `json:"priority" gorm:"default:'medium'"` // high, medium, low
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ItemPriority represents the restock urgency of an order item
type ItemPriority string

const (
	PriorityHigh   ItemPriority = "high"
	PriorityMedium ItemPriority = "medium"
	PriorityLow    ItemPriority = "low"
)
