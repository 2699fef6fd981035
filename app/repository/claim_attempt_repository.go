package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// claimAttemptRepository implements the ClaimAttemptRepository interface
type claimAttemptRepository struct {
	db *gorm.DB
}

// NewClaimAttemptRepository creates a new claim attempt repository instance
func NewClaimAttemptRepository(db *gorm.DB) ClaimAttemptRepository {
	return &claimAttemptRepository{db: db}
}

// Create writes the attempt row. The unique index on (found_item_id,
// claimant_identity) serializes concurrent submissions; the resulting
// duplicate-key error is reported as ErrDuplicateAttempt, not a fault.
func (r *claimAttemptRepository) Create(attempt *models.ClaimAttempt) error {
	err := r.db.Create(attempt).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateAttempt
	}
	return err
}

// GetByID retrieves a claim attempt by its ID
func (r *claimAttemptRepository) GetByID(id uint) (*models.ClaimAttempt, error) {
	var attempt models.ClaimAttempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// GetByItemAndClaimant retrieves the single attempt for an (item, claimant) pair
func (r *claimAttemptRepository) GetByItemAndClaimant(itemID uint, claimantIdentity string) (*models.ClaimAttempt, error) {
	var attempt models.ClaimAttempt
	err := r.db.Where("found_item_id = ? AND claimant_identity = ?", itemID, claimantIdentity).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ListByItem retrieves all attempts for a found item, newest first
func (r *claimAttemptRepository) ListByItem(itemID uint) ([]models.ClaimAttempt, error) {
	var attempts []models.ClaimAttempt
	err := r.db.Where("found_item_id = ?", itemID).Order("submitted_at DESC").Find(&attempts).Error
	return attempts, err
}

// ListByClaimant retrieves all attempts submitted under one claimant identity
func (r *claimAttemptRepository) ListByClaimant(claimantIdentity string) ([]models.ClaimAttempt, error) {
	var attempts []models.ClaimAttempt
	err := r.db.Where("claimant_identity = ?", claimantIdentity).Order("submitted_at DESC").Find(&attempts).Error
	return attempts, err
}

// SetMarkedAsPotential stamps the attempt's marked_as_potential_at
func (r *claimAttemptRepository) SetMarkedAsPotential(id uint, ts time.Time) error {
	return r.db.Model(&models.ClaimAttempt{}).Where("id = ?", id).
		Update("marked_as_potential_at", ts).Error
}
