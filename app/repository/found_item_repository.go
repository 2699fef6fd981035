package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// foundItemRepository implements the FoundItemRepository interface
type foundItemRepository struct {
	db *gorm.DB
}

// NewFoundItemRepository creates a new found item repository instance
func NewFoundItemRepository(db *gorm.DB) FoundItemRepository {
	return &foundItemRepository{db: db}
}

// Create stores a new found item together with its security questions
func (r *foundItemRepository) Create(item *models.FoundItem) error {
	return r.db.Create(item).Error
}

// GetByID retrieves a found item by its ID
func (r *foundItemRepository) GetByID(id uint) (*models.FoundItem, error) {
	var item models.FoundItem
	err := r.db.Preload("Finder").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByUUID retrieves a found item by its UUID
func (r *foundItemRepository) GetByUUID(uuid string) (*models.FoundItem, error) {
	var item models.FoundItem
	err := r.db.Preload("Finder").Where("uuid = ?", uuid).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetWithQuestions retrieves a found item with its security questions loaded
func (r *foundItemRepository) GetWithQuestions(id uint) (*models.FoundItem, error) {
	var item models.FoundItem
	err := r.db.Preload("Finder").Preload("Questions").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List retrieves found items with pagination, newest first
func (r *foundItemRepository) List(offset, limit int) ([]models.FoundItem, error) {
	var items []models.FoundItem
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, err
}

// ListByFinder retrieves all found items reported by the given finder
func (r *foundItemRepository) ListByFinder(finderID uint) ([]models.FoundItem, error) {
	var items []models.FoundItem
	err := r.db.Where("finder_id = ?", finderID).Order("created_at DESC").Find(&items).Error
	return items, err
}

// Count returns the total number of active found items
func (r *foundItemRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.FoundItem{}).Count(&count).Error
	return count, err
}

// SetClaimStatus performs a guarded claim status update
func (r *foundItemRepository) SetClaimStatus(id uint, to string, allowedFrom ...string) (bool, error) {
	res := r.db.Model(&models.FoundItem{}).
		Where("id = ? AND claim_status IN ?", id, allowedFrom).
		Update("claim_status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetPotentialMarkedAt sets the window start if no earlier marking owns it
func (r *foundItemRepository) SetPotentialMarkedAt(id uint, ts time.Time) (bool, error) {
	res := r.db.Model(&models.FoundItem{}).
		Where("id = ? AND potential_claimer_marked_at IS NULL", id).
		Update("potential_claimer_marked_at", ts)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FinalizeReturn archives the claim and destroys the item in one transaction
func (r *foundItemRepository) FinalizeReturn(item *models.FoundItem, claim *models.Claim, ret *models.SuccessfulReturn) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(claim).Error; err != nil {
			return err
		}
		ret.ClaimID = claim.ID
		if err := tx.Create(ret).Error; err != nil {
			return err
		}
		if err := tx.Where("found_item_id = ?", item.ID).Delete(&models.ClaimAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("found_item_id = ?", item.ID).Delete(&models.SecurityQuestion{}).Error; err != nil {
			return err
		}
		// Guard against a concurrent finalize or withdrawal: the delete only
		// matches while the item is still in the status we decided on.
		res := tx.Where("id = ? AND claim_status = ?", item.ID, item.ClaimStatus).Delete(&models.FoundItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteCascade hard-deletes the item with its attempts and questions
func (r *foundItemRepository) DeleteCascade(id uint, allowedFrom ...string) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND claim_status IN ?", id, allowedFrom).Delete(&models.FoundItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := tx.Where("found_item_id = ?", id).Delete(&models.ClaimAttempt{}).Error; err != nil {
			return err
		}
		return tx.Where("found_item_id = ?", id).Delete(&models.SecurityQuestion{}).Error
	})
	return deleted, err
}
