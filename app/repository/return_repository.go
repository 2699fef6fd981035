package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// returnRepository implements the ReturnRepository interface. The archive is
// append-only; rows are written inside FinalizeReturn, never here.
type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new successful-returns repository instance
func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

// GetByClaimID retrieves the archival record belonging to a claim
func (r *returnRepository) GetByClaimID(claimID uint) (*models.SuccessfulReturn, error) {
	var ret models.SuccessfulReturn
	err := r.db.Where("claim_id = ?", claimID).First(&ret).Error
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// CountTotal returns the total number of successful returns
func (r *returnRepository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&models.SuccessfulReturn{}).Count(&count).Error
	return count, err
}

// CountSince returns the number of returns finalized at or after t
func (r *returnRepository) CountSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.SuccessfulReturn{}).
		Where("finalized_at >= ?", t).Count(&count).Error
	return count, err
}

// ListRecent retrieves the latest successful returns
func (r *returnRepository) ListRecent(limit int) ([]models.SuccessfulReturn, error) {
	var returns []models.SuccessfulReturn
	err := r.db.Order("finalized_at DESC").Limit(limit).Find(&returns).Error
	return returns, err
}
