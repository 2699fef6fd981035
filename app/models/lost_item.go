package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LostItem is a user's report of something they lost. Unlike found items,
// lost reports are always public. An unresolved lost report whose category
// and location match a private found item grants its owner limited early
// visibility of that item.
type LostItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        string    `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=3,max=255"`
	Category    string    `gorm:"type:varchar(100);index;not null" json:"category" validate:"required,max=100"`
	Location    string    `gorm:"type:varchar(150);index;not null" json:"location" validate:"required,max=150"`
	Description string    `gorm:"type:text" json:"description" validate:"max=5000"`
	LostAt      time.Time `gorm:"type:datetime;not null" json:"lost_at" validate:"required"`
	IsResolved  bool      `gorm:"default:false;index" json:"is_resolved"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *LostItem) Validate() error {
	v := validator.New()

	return v.Struct(l)
}

func (l *LostItem) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == "" {
		l.UUID = uuid.New().String()
	}
	return nil
}
