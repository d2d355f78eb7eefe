package services

import (
	"store_order/internal/models"
	"store_order/internal/repository"
)

type InventoryService interface {
	List() ([]models.Inventory, error)
	LowStock() ([]models.Inventory, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

func NewInventoryService(inventoryRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

func (s *inventoryService) List() ([]models.Inventory, error) {
	return s.inventoryRepo.GetAll()
}

func (s *inventoryService) LowStock() ([]models.Inventory, error) {
	return s.inventoryRepo.GetLowStock()
}
