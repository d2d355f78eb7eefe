package repository

import (
	"time"

	"store_order/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductSalesSummary aggregates recent sales for one product.
type ProductSalesSummary struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	DaysWithSales int             `json:"days_with_sales"`
}

type SalesRepository interface {
	Create(sale *models.Sale) error
	CreateBatch(sales []models.Sale) error
	GetRecentSummaries(days int) ([]ProductSalesSummary, error)
	GetDailyTotals(productName string, days int) ([]models.Sale, error)
}

type salesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) Create(sale *models.Sale) error {
	return r.db.Create(sale).Error
}

func (r *salesRepository) CreateBatch(sales []models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	return r.db.Create(&sales).Error
}

func (r *salesRepository) GetRecentSummaries(days int) ([]ProductSalesSummary, error) {
	since := time.Now().AddDate(0, 0, -days)

	var summaries []ProductSalesSummary
	err := r.db.Model(&models.Sale{}).
		Select("product_name, SUM(quantity_sold) AS total_quantity, SUM(sale_price * quantity_sold) AS total_revenue, COUNT(DISTINCT sale_date) AS days_with_sales").
		Where("sale_date >= ?", since).
		Group("product_name").
		Order("total_quantity DESC").
		Scan(&summaries).Error
	return summaries, err
}

func (r *salesRepository) GetDailyTotals(productName string, days int) ([]models.Sale, error) {
	since := time.Now().AddDate(0, 0, -days)

	var sales []models.Sale
	err := r.db.Where("product_name = ? AND sale_date >= ?", productName, since).
		Order("sale_date DESC").
		Find(&sales).Error
	return sales, err
}
