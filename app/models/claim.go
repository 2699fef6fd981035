package models

import (
	"time"
)

// Resolution status of an ownership claim. PENDING is only reachable through
// the informally-agreed path; finalization produces a claim that is already
// CLAIMED. Once a claim leaves PENDING the status is terminal.
const (
	ResolutionPending    = "PENDING"
	ResolutionClaimed    = "CLAIMED"
	ResolutionNotClaimed = "NOT_CLAIMED"
)

// Claim is the ownership transaction between finder and claimant. It carries
// contact snapshots of both parties because the found item row (and with it
// the user relation chain toward the attempt) is destroyed at finalization.
type Claim struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// FoundItemID is a plain reference, not a foreign key: the item row is
	// gone once the claim exists through the finalization path.
	FoundItemID uint   `gorm:"uniqueIndex;not null" json:"found_item_id"`
	ItemTitle   string `gorm:"type:varchar(255)" json:"item_title"`

	ClaimerUserID *uint  `gorm:"index" json:"claimer_user_id,omitempty"`
	ClaimerName   string `gorm:"type:varchar(150)" json:"claimer_name"`
	ClaimerEmail  string `gorm:"type:varchar(200)" json:"claimer_email"`
	ClaimerPhone  string `gorm:"type:varchar(30)" json:"claimer_phone"`

	FinderUserID uint   `gorm:"index;not null" json:"finder_user_id"`
	FinderName   string `gorm:"type:varchar(150)" json:"finder_name"`
	FinderEmail  string `gorm:"type:varchar(200)" json:"finder_email"`
	FinderPhone  string `gorm:"type:varchar(30)" json:"finder_phone"`

	Justification    string     `gorm:"type:text" json:"justification"`
	VerificationDate time.Time  `gorm:"type:datetime;not null" json:"verification_date"`
	ResolutionStatus string     `gorm:"type:varchar(20);default:'PENDING';not null" json:"resolution_status"`
	ResolvedAt       *time.Time `gorm:"type:datetime;default:null" json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsResolved reports whether the claim has left PENDING.
func (c *Claim) IsResolved() bool {
	return c.ResolutionStatus != ResolutionPending
}

// IsParty reports whether the given user is the finder or the claimer.
func (c *Claim) IsParty(userID uint) bool {
	if userID == 0 {
		return false
	}
	if c.FinderUserID == userID {
		return true
	}
	return c.ClaimerUserID != nil && *c.ClaimerUserID == userID
}
