package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recommendation struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	RecommendationDate time.Time       `json:"recommendation_date" gorm:"type:date;not null;index"`
	InventoryAnalysis  string          `json:"inventory_analysis" gorm:"type:text"`
	SalesAnalysis      string          `json:"sales_analysis" gorm:"type:text"`
	WeatherAnalysis    string          `json:"weather_analysis" gorm:"type:text"`
	Summary            string          `json:"summary" gorm:"type:text"`
	TotalItems         int             `json:"total_items" gorm:"default:0"`
	TotalCost          decimal.Decimal `json:"total_cost" gorm:"type:numeric(12,2);default:0"`
	Status             string          `json:"status" gorm:"default:'pending';index"` // pending, approved, rejected, executed
	ReviewedBy         string          `json:"reviewed_by"`
	ReviewedAt         *time.Time      `json:"reviewed_at"`
	ExecutedAt         *time.Time      `json:"executed_at"`
	Items              []OrderItem     `json:"items,omitempty" gorm:"foreignKey:RecommendationID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type RecommendationStatus string

const (
	RecommendationPending  RecommendationStatus = "pending"
	RecommendationApproved RecommendationStatus = "approved"
	RecommendationRejected RecommendationStatus = "rejected"
	RecommendationExecuted RecommendationStatus = "executed"
)
