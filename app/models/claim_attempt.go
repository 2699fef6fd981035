package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnswerSet maps question IDs to the chosen answer index.
type AnswerSet map[uint]int

// Value implements the driver.Valuer interface
func (a AnswerSet) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *AnswerSet) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerSet{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	return json.Unmarshal(bytes, a)
}

// ClaimAttempt is one claimant's single, immutable shot at the verification
// questions of a found item. The composite unique index enforces at most one
// row per (item, claimant) pair even under concurrent submissions.
type ClaimAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FoundItemID uint      `gorm:"not null;uniqueIndex:idx_item_claimant" json:"found_item_id"`
	FoundItem   FoundItem `gorm:"foreignKey:FoundItemID" json:"found_item,omitempty"`

	// ClaimantIdentity is "user:<id>" for authenticated claimants or
	// "anon:<token>" for guests holding a stable anonymous token.
	ClaimantIdentity string `gorm:"type:varchar(100);not null;uniqueIndex:idx_item_claimant" json:"claimant_identity"`
	ClaimantUserID   *uint  `gorm:"index" json:"claimant_user_id,omitempty"`
	ClaimantName     string `gorm:"type:varchar(150)" json:"claimant_name"`
	ClaimantEmail    string `gorm:"type:varchar(200)" json:"claimant_email"`
	ClaimantPhone    string `gorm:"type:varchar(30)" json:"claimant_phone"`

	Answers             AnswerSet  `gorm:"type:json;not null" json:"answers"`
	CorrectnessRatio    float64    `gorm:"type:decimal(4,3);not null" json:"correctness_ratio"`
	IsVerified          bool       `gorm:"default:false;not null" json:"is_verified"`
	SubmittedAt         time.Time  `gorm:"type:datetime;not null" json:"submitted_at"`
	MarkedAsPotentialAt *time.Time `gorm:"type:datetime;default:null" json:"marked_as_potential_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsPotential reports whether the finder has marked this attempt as a
// potential claimer.
func (a *ClaimAttempt) IsPotential() bool {
	return a.MarkedAsPotentialAt != nil
}
