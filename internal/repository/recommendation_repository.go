package repository

import (
	"store_order/internal/models"

	"gorm.io/gorm"
)

type RecommendationRepository interface {
	Create(rec *models.Recommendation) error
	GetByID(id uint) (*models.Recommendation, error)
	GetWithItems(id uint) (*models.Recommendation, error)
	List(status string, limit int) ([]models.Recommendation, error)
	Update(rec *models.Recommendation) error
	Delete(id uint) error
}

type recommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) Create(rec *models.Recommendation) error {
	return r.db.Create(rec).Error
}

func (r *recommendationRepository) GetByID(id uint) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := r.db.First(&rec, id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) GetWithItems(id uint) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := r.db.Preload("Items").First(&rec, id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) List(status string, limit int) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	query := r.db.Order("recommendation_date DESC, created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&recs).Error
	return recs, err
}

func (r *recommendationRepository) Update(rec *models.Recommendation) error {
	return r.db.Save(rec).Error
}

func (r *recommendationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Recommendation{}, id).Error
}
