package services

import (
	"errors"
	"time"

	"store_order/internal/models"
	"store_order/internal/redis"
	"store_order/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatistics aggregates the ledger for one month.
type OrderStatistics struct {
	Month        string          `json:"month"`
	TotalOrders  int             `json:"total_orders"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	StatusCounts map[string]int  `json:"status_counts"`
}

type OrderService interface {
	GetPending() ([]models.Order, error)
	GetHistory(status string, days int) ([]models.Order, error)
	GetStatistics(month string) (*OrderStatistics, error)
	Approve(id uint, reviewer string) (*models.Order, error)
	Reject(id uint, reviewer string) (*models.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	log       zerolog.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, cache *redis.Client, cacheTTL time.Duration, log zerolog.Logger) OrderService {
	return &orderService{orderRepo: orderRepo, cache: cache, cacheTTL: cacheTTL, log: log}
}

func (s *orderService) GetPending() ([]models.Order, error) {
	return s.orderRepo.GetPending()
}

func (s *orderService) GetHistory(status string, days int) ([]models.Order, error) {
	if days <= 0 {
		days = 30
	}
	return s.orderRepo.GetHistory(status, days)
}

func (s *orderService) GetStatistics(month string) (*OrderStatistics, error) {
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	if s.cache != nil {
		var cached OrderStatistics
		if err := s.cache.GetOrderStatistics(month, &cached); err == nil {
			return &cached, nil
		}
	}

	orders, err := s.orderRepo.GetByMonth(month)
	if err != nil {
		return nil, err
	}

	stats := &OrderStatistics{
		Month:        month,
		TotalOrders:  len(orders),
		TotalCost:    decimal.Zero,
		StatusCounts: map[string]int{},
	}
	for _, order := range orders {
		stats.TotalCost = stats.TotalCost.Add(order.TotalCost)
		stats.StatusCounts[order.Status]++
	}

	if s.cache != nil {
		if err := s.cache.SetOrderStatistics(month, stats, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("month", month).Msg("failed to cache order statistics")
		}
	}
	return stats, nil
}

func (s *orderService) Approve(id uint, reviewer string) (*models.Order, error) {
	return s.review(id, reviewer, models.OrderApproved)
}

func (s *orderService) Reject(id uint, reviewer string) (*models.Order, error) {
	return s.review(id, reviewer, models.OrderRejected)
}

func (s *orderService) review(id uint, reviewer string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = string(status)
	order.ReviewedBy = reviewer
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	if s.cache != nil {
		month := order.OrderDate.Format("2006-01")
		if err := s.cache.InvalidateOrderStatistics(month); err != nil {
			s.log.Warn().Err(err).Str("month", month).Msg("failed to invalidate statistics cache")
		}
	}

	s.log.Info().
		Uint("order_id", order.ID).
		Str("status", order.Status).
		Str("reviewed_by", reviewer).
		Msg("ledger order reviewed")
	return order, nil
}
