package models

import (
	"time"
)

// SuccessfulReturn is the immutable archival copy written when a found item
// is finalized, just before the item and its attempts are destroyed. It feeds
// the public "successful returns" counters and is never updated or deleted.
type SuccessfulReturn struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FoundItemID uint   `gorm:"index;not null" json:"found_item_id"`
	ClaimID     uint   `gorm:"index;not null" json:"claim_id"`
	ItemTitle   string `gorm:"type:varchar(255)" json:"item_title"`
	Category    string `gorm:"type:varchar(100)" json:"category"`
	Location    string `gorm:"type:varchar(150)" json:"location"`

	FinderUserID     uint   `gorm:"index" json:"finder_user_id"`
	ClaimantIdentity string `gorm:"type:varchar(100)" json:"claimant_identity"`

	ItemCreatedAt  time.Time `gorm:"type:datetime" json:"item_created_at"`
	FinalizedAt    time.Time `gorm:"type:datetime;index;not null" json:"finalized_at"`
	DaysToFinalize int       `json:"days_to_finalize"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
