package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ProductName  string          `json:"product_name" gorm:"not null;index"`
	QuantitySold int             `json:"quantity_sold" gorm:"not null"`
	SalePrice    decimal.Decimal `json:"sale_price" gorm:"type:numeric(10,2)"`
	SaleDate     time.Time       `json:"sale_date" gorm:"type:date;not null;index"`
	DayOfWeek    string          `json:"day_of_week"`
	CreatedAt    time.Time       `json:"created_at"`
}
