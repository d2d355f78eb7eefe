package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Inventory struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProductName string          `json:"product_name" gorm:"uniqueIndex;not null"`
	Category    string          `json:"category" gorm:"index"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	SafeStock   int             `json:"safe_stock" gorm:"default:20"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2)"`
	ExpiryDate  *time.Time      `json:"expiry_date" gorm:"type:date"`
	LastUpdated time.Time       `json:"last_updated" gorm:"autoUpdateTime"`
}
