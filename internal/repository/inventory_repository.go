package repository

import (
	"errors"

	"store_order/internal/models"

	"gorm.io/gorm"
)

type InventoryRepository interface {
	GetAll() ([]models.Inventory, error)
	GetByProductName(productName string) (*models.Inventory, error)
	GetLowStock() ([]models.Inventory, error)
	Upsert(record *models.Inventory) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetAll() ([]models.Inventory, error) {
	var records []models.Inventory
	err := r.db.Order("product_name ASC").Find(&records).Error
	return records, err
}

func (r *inventoryRepository) GetByProductName(productName string) (*models.Inventory, error) {
	var record models.Inventory
	err := r.db.Where("product_name = ?", productName).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *inventoryRepository) GetLowStock() ([]models.Inventory, error) {
	var records []models.Inventory
	err := r.db.Where("quantity < safe_stock").Order("quantity ASC").Find(&records).Error
	return records, err
}

// Upsert creates the record or updates the existing row for the same product.
func (r *inventoryRepository) Upsert(record *models.Inventory) error {
	var existing models.Inventory
	err := r.db.Where("product_name = ?", record.ProductName).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(record).Error
	}
	if err != nil {
		return err
	}

	existing.Category = record.Category
	existing.Quantity = record.Quantity
	existing.SafeStock = record.SafeStock
	existing.UnitPrice = record.UnitPrice
	existing.ExpiryDate = record.ExpiryDate
	return r.db.Save(&existing).Error
}
