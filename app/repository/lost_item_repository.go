package repository

import (
	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// lostItemRepository implements the LostItemRepository interface
type lostItemRepository struct {
	db *gorm.DB
}

// NewLostItemRepository creates a new lost item repository instance
func NewLostItemRepository(db *gorm.DB) LostItemRepository {
	return &lostItemRepository{db: db}
}

// Create stores a new lost item report
func (r *lostItemRepository) Create(item *models.LostItem) error {
	return r.db.Create(item).Error
}

// GetByID retrieves a lost item by its ID
func (r *lostItemRepository) GetByID(id uint) (*models.LostItem, error) {
	var item models.LostItem
	err := r.db.Preload("User").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser retrieves all lost item reports of one user
func (r *lostItemRepository) ListByUser(userID uint) ([]models.LostItem, error) {
	var items []models.LostItem
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	return items, err
}

// List retrieves lost items with pagination, newest first
func (r *lostItemRepository) List(offset, limit int) ([]models.LostItem, error) {
	var items []models.LostItem
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, err
}

// MarkResolved flags a lost report as resolved
func (r *lostItemRepository) MarkResolved(id uint) error {
	return r.db.Model(&models.LostItem{}).Where("id = ?", id).
		Update("is_resolved", true).Error
}

// HasOpenMatch reports whether the user has an unresolved lost report
// matching the given category and location
func (r *lostItemRepository) HasOpenMatch(userID uint, category, location string) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := r.db.Model(&models.LostItem{}).
		Where("user_id = ? AND is_resolved = ? AND category = ? AND location = ?",
			userID, false, category, location).
		Count(&count).Error
	return count > 0, err
}
