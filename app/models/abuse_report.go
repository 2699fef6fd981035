package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"

	ReportPriorityLow    = "low"
	ReportPriorityMedium = "medium"
	ReportPriorityHigh   = "high"

	// ReportCategoryFalseClaim marks reports emitted automatically when an
	// ownership claim is resolved NOT_CLAIMED.
	ReportCategoryFalseClaim = "false_claim"
)

type AbuseReport struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// TargetType/TargetID point at the reported entity (claim, item, user).
	TargetType  string `gorm:"type:varchar(20);not null" json:"target_type"`
	TargetID    uint   `gorm:"index;not null" json:"target_id"`
	TargetTitle string `gorm:"type:varchar(255)" json:"target_title"`

	ReportedByID *uint  `gorm:"index" json:"reported_by_id,omitempty"`
	ReportedBy   *User  `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
	Category     string `gorm:"type:varchar(50);not null" json:"category"`
	Reason       string `gorm:"type:varchar(255);not null" json:"reason"`
	Description  string `gorm:"type:text" json:"description"`
	Priority     string `gorm:"type:varchar(20);default:'medium'" json:"priority"`
	// AutoGenerated is true for reports created by the engine itself, never
	// by a user action.
	AutoGenerated bool `gorm:"default:false" json:"auto_generated"`

	Status         string         `gorm:"type:varchar(20);default:'open'" json:"status"`
	ModeratorNotes string         `gorm:"type:text" json:"moderator_notes"`
	ResolvedByID   *uint          `gorm:"index" json:"resolved_by_id,omitempty"`
	ResolvedBy     *User          `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
