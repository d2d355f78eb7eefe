package repository

import (
	"time"

	"store_order/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetPending() ([]models.Order, error)
	GetHistory(status string, days int) ([]models.Order, error)
	GetByMonth(month string) ([]models.Order, error)
	Update(order *models.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetPending() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("status = ?", string(models.OrderPending)).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetHistory(status string, days int) ([]models.Order, error) {
	var orders []models.Order
	since := time.Now().AddDate(0, 0, -days)
	query := r.db.Where("order_date >= ?", since)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("order_date DESC, id DESC").Find(&orders).Error
	return orders, err
}

// GetByMonth returns ledger entries whose order date falls in the given month (YYYY-MM).
func (r *orderRepository) GetByMonth(month string) ([]models.Order, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 1, 0)

	var orders []models.Order
	err = r.db.Where("order_date >= ? AND order_date < ?", start, end).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}
