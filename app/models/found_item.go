package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claim status values for a found item. Transitions are forward only:
// OPEN -> POTENTIAL_CLAIMER_MARKED -> FINALIZED, or OPEN/POTENTIAL_CLAIMER_MARKED -> DELETED.
// FINALIZED and DELETED never persist as rows: both end in a hard delete,
// FINALIZED after the archival copy has been written.
const (
	ClaimStatusOpen            = "OPEN"
	ClaimStatusPotentialMarked = "POTENTIAL_CLAIMER_MARKED"
	ClaimStatusFinalized       = "FINALIZED"
	ClaimStatusDeleted         = "DELETED"
)

type FoundItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UUID        string `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	FinderID    uint   `gorm:"index;not null" json:"finder_id"`
	Finder      User   `gorm:"foreignKey:FinderID" json:"finder,omitempty" validate:"-"`
	Title       string `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=3,max=255"`
	Category    string `gorm:"type:varchar(100);index;not null" json:"category" validate:"required,max=100"`
	Location    string `gorm:"type:varchar(150);index;not null" json:"location" validate:"required,max=150"`
	Description string `gorm:"type:text" json:"description,omitempty" validate:"max=5000"`
	Color       string `gorm:"type:varchar(50)" json:"color,omitempty" validate:"max=50"`
	Size        string `gorm:"type:varchar(50)" json:"size,omitempty" validate:"max=50"`
	ImageURL    string `gorm:"type:varchar(255)" json:"image_url,omitempty" validate:"max=255"`

	FoundAt                  time.Time  `gorm:"type:datetime;not null" json:"found_at" validate:"required"`
	ClaimStatus              string     `gorm:"type:varchar(30);default:'OPEN';not null" json:"claim_status"`
	PotentialClaimerMarkedAt *time.Time `gorm:"type:datetime;default:null" json:"potential_claimer_marked_at,omitempty"`

	Questions []SecurityQuestion `gorm:"foreignKey:FoundItemID" json:"questions,omitempty"`
	Attempts  []ClaimAttempt     `gorm:"foreignKey:FoundItemID" json:"attempts,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *FoundItem) Validate() error {
	v := validator.New()

	return v.Struct(f)
}

func (f *FoundItem) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == "" {
		f.UUID = uuid.New().String()
	}
	if f.ClaimStatus == "" {
		f.ClaimStatus = ClaimStatusOpen
	}
	return nil
}

// Claimable reports whether the item still accepts fresh claim attempts.
// The ledger stays open while the finder is weighing potential claimers.
func (f *FoundItem) Claimable() bool {
	return f.ClaimStatus == ClaimStatusOpen || f.ClaimStatus == ClaimStatusPotentialMarked
}
