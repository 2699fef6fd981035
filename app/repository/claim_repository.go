package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// claimRepository implements the ClaimRepository interface
type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new claim repository instance
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

// Create stores a new ownership claim
func (r *claimRepository) Create(claim *models.Claim) error {
	return r.db.Create(claim).Error
}

// GetByID retrieves a claim by its ID
func (r *claimRepository) GetByID(id uint) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.First(&claim, id).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// GetByFoundItemID retrieves the claim for a found item
func (r *claimRepository) GetByFoundItemID(itemID uint) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.Where("found_item_id = ?", itemID).First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// ListByParty retrieves claims where the user is finder or claimer
func (r *claimRepository) ListByParty(userID uint) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Where("finder_user_id = ? OR claimer_user_id = ?", userID, userID).
		Order("verification_date DESC").Find(&claims).Error
	return claims, err
}

// ResolvePending moves a PENDING claim to a terminal status. The WHERE guard
// makes the transition first-writer-wins: the second resolver sees zero rows.
func (r *claimRepository) ResolvePending(id uint, status string, resolvedAt time.Time) (bool, error) {
	res := r.db.Model(&models.Claim{}).
		Where("id = ? AND resolution_status = ?", id, models.ResolutionPending).
		Updates(map[string]interface{}{
			"resolution_status": status,
			"resolved_at":       resolvedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
