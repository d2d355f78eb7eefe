package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"store_order/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ordered goods arrive two days after the order date.
const deliveryLeadDays = 2

// ExecutionReceipt summarizes a successful execution.
type ExecutionReceipt struct {
	RecommendationID uint            `json:"recommendation_id"`
	ItemsOrdered     int             `json:"items_ordered"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	DeliveryDate     time.Time       `json:"delivery_date"`
}

// ExecutionService converts a recommendation into inventory increments and
// order ledger entries, exactly once.
type ExecutionService interface {
	Execute(ctx context.Context, recommendationID uint) (*ExecutionReceipt, error)
}

type executionService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewExecutionService(db *gorm.DB, log zerolog.Logger) ExecutionService {
	return &executionService{db: db, log: log}
}

// Execute runs the whole conversion in a single transaction: a guarded
// compare-and-set on the recommendation status is the point of mutual
// exclusion, so two concurrent calls can never both mutate inventory.
func (s *executionService) Execute(ctx context.Context, recommendationID uint) (*ExecutionReceipt, error) {
	var receipt *ExecutionReceipt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.Recommendation
		if err := tx.First(&rec, recommendationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecommendationNotFound
			}
			return err
		}
		if rec.Status == string(models.RecommendationExecuted) {
			return ErrAlreadyExecuted
		}

		var items []models.OrderItem
		if err := tx.Where("recommendation_id = ?", recommendationID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrNoOrderItems
		}

		now := time.Now()
		orderDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		deliveryDate := orderDate.AddDate(0, 0, deliveryLeadDays)

		total := decimal.Zero
		for _, item := range items {
			res := tx.Model(&models.Inventory{}).
				Where("product_name = ?", item.ProductName).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", item.OrderQuantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrProductNotInInventory, item.ProductName)
			}

			ledgerEntry := models.Order{
				ProductName:     item.ProductName,
				QuantityOrdered: item.OrderQuantity,
				UnitCost:        item.UnitPrice,
				TotalCost:       item.TotalCost,
				OrderDate:       orderDate,
				DeliveryDate:    &deliveryDate,
				Status:          string(models.OrderPending),
			}
			if err := tx.Create(&ledgerEntry).Error; err != nil {
				return err
			}
			total = total.Add(item.TotalCost)
		}

		// Compare-and-set guards against a concurrent execute that slipped
		// past the status read above; the loser sees zero rows affected.
		res := tx.Model(&models.Recommendation{}).
			Where("id = ? AND status <> ?", recommendationID, string(models.RecommendationExecuted)).
			Updates(map[string]interface{}{
				"status":      string(models.RecommendationExecuted),
				"executed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyExecuted
		}

		receipt = &ExecutionReceipt{
			RecommendationID: recommendationID,
			ItemsOrdered:     len(items),
			TotalCost:        total,
			DeliveryDate:     deliveryDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("recommendation_id", receipt.RecommendationID).
		Int("items_ordered", receipt.ItemsOrdered).
		Str("total_cost", receipt.TotalCost.StringFixed(0)).
		Time("delivery_date", receipt.DeliveryDate).
		Msg("recommendation executed")
	return receipt, nil
}
