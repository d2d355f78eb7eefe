package services

import (
	"errors"
	"time"

	"store_order/internal/models"
	"store_order/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Analyses longer than this are truncated before persisting.
const maxAnalysisLength = 5000

// ItemAdjustment reports the recomputed totals after an item quantity change.
type ItemAdjustment struct {
	ItemID                  uint            `json:"item_id"`
	OrderQuantity           int             `json:"order_quantity"`
	ItemTotalCost           decimal.Decimal `json:"item_total_cost"`
	RecommendationTotalCost decimal.Decimal `json:"recommendation_total_cost"`
}

type RecommendationService interface {
	CreateFromWorkflow(result *WorkflowResult) (*models.Recommendation, error)
	GetByID(id uint) (*models.Recommendation, error)
	GetItems(id uint) ([]models.OrderItem, error)
	List(status string, limit int) ([]models.Recommendation, error)
	Approve(id uint, reviewer string) (*models.Recommendation, error)
	Reject(id uint, reviewer string) (*models.Recommendation, error)
	UpdateItemQuantity(recommendationID, itemID uint, quantity int) (*ItemAdjustment, error)
}

type recommendationService struct {
	db       *gorm.DB
	recRepo  repository.RecommendationRepository
	itemRepo repository.OrderItemRepository
	log      zerolog.Logger
}

func NewRecommendationService(db *gorm.DB, recRepo repository.RecommendationRepository, itemRepo repository.OrderItemRepository, log zerolog.Logger) RecommendationService {
	return &recommendationService{db: db, recRepo: recRepo, itemRepo: itemRepo, log: log}
}

// CreateFromWorkflow persists a pipeline result as a pending recommendation
// with its items. The recommendation and its items commit together.
func (s *recommendationService) CreateFromWorkflow(result *WorkflowResult) (*models.Recommendation, error) {
	items := make([]models.OrderItem, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, models.OrderItem{
			ProductName:   it.ProductName,
			CurrentStock:  it.CurrentStock,
			SafeStock:     it.SafeStock,
			OrderQuantity: it.OrderQuantity,
			UnitPrice:     it.UnitPrice,
			TotalCost:     it.TotalCost,
			Reason:        it.Reason,
			Priority:      it.Priority,
		})
	}

	rec := &models.Recommendation{
		RecommendationDate: today(),
		InventoryAnalysis:  truncate(result.InventoryAnalysis, maxAnalysisLength),
		SalesAnalysis:      truncate(result.SalesAnalysis, maxAnalysisLength),
		WeatherAnalysis:    truncate(result.WeatherAnalysis, maxAnalysisLength),
		Summary:            truncate(result.Summary, maxAnalysisLength),
		TotalItems:         result.TotalItems,
		TotalCost:          result.TotalCost,
		Status:             string(models.RecommendationPending),
		Items:              items,
	}

	if err := s.recRepo.Create(rec); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("recommendation_id", rec.ID).
		Int("total_items", rec.TotalItems).
		Str("total_cost", rec.TotalCost.StringFixed(0)).
		Msg("recommendation saved")
	return rec, nil
}

func (s *recommendationService) GetByID(id uint) (*models.Recommendation, error) {
	rec, err := s.recRepo.GetWithItems(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecommendationNotFound
	}
	return rec, err
}

func (s *recommendationService) GetItems(id uint) ([]models.OrderItem, error) {
	if _, err := s.recRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}
	return s.itemRepo.GetByRecommendationID(id)
}

func (s *recommendationService) List(status string, limit int) ([]models.Recommendation, error) {
	return s.recRepo.List(status, limit)
}

func (s *recommendationService) Approve(id uint, reviewer string) (*models.Recommendation, error) {
	return s.review(id, reviewer, models.RecommendationApproved)
}

func (s *recommendationService) Reject(id uint, reviewer string) (*models.Recommendation, error) {
	return s.review(id, reviewer, models.RecommendationRejected)
}

// review marks a recommendation approved or rejected. Executed recommendations
// are terminal and cannot be reviewed.
func (s *recommendationService) review(id uint, reviewer string, status models.RecommendationStatus) (*models.Recommendation, error) {
	rec, err := s.recRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}
	if rec.Status == string(models.RecommendationExecuted) {
		return nil, ErrAlreadyExecuted
	}

	now := time.Now()
	rec.Status = string(status)
	rec.ReviewedBy = reviewer
	rec.ReviewedAt = &now
	if err := s.recRepo.Update(rec); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("recommendation_id", rec.ID).
		Str("status", rec.Status).
		Str("reviewed_by", reviewer).
		Msg("recommendation reviewed")
	return rec, nil
}

// UpdateItemQuantity changes one item's order quantity, recomputes that item's
// total from its unit price, and recomputes the parent recommendation's total
// as the sum over all its items. Both writes happen in one transaction.
func (s *recommendationService) UpdateItemQuantity(recommendationID, itemID uint, quantity int) (*ItemAdjustment, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var adjustment ItemAdjustment
	err := s.db.Transaction(func(tx *gorm.DB) error {
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

		var item models.OrderItem
		if err := tx.Where("id = ? AND recommendation_id = ?", itemID, recommendationID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		item.OrderQuantity = quantity
		item.TotalCost = item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		var recTotal decimal.Decimal
		row := tx.Model(&models.OrderItem{}).
			Where("recommendation_id = ?", recommendationID).
			Select("COALESCE(SUM(total_cost), 0)").
			Row()
		if err := row.Scan(&recTotal); err != nil {
			return err
		}

		if err := tx.Model(&rec).Update("total_cost", recTotal).Error; err != nil {
			return err
		}

		adjustment = ItemAdjustment{
			ItemID:                  item.ID,
			OrderQuantity:           quantity,
			ItemTotalCost:           item.TotalCost,
			RecommendationTotalCost: recTotal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("recommendation_id", recommendationID).
		Uint("item_id", itemID).
		Int("quantity", quantity).
		Str("item_total_cost", adjustment.ItemTotalCost.StringFixed(0)).
		Msg("order item adjusted")
	return &adjustment, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
