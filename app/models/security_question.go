package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Choices stores a question's answer options as a JSON array column.
type Choices []string

// Value implements the driver.Valuer interface
func (c Choices) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (c *Choices) Scan(value interface{}) error {
	if value == nil {
		*c = Choices{}
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
	return json.Unmarshal(bytes, c)
}

// SecurityQuestion is a finder-authored ownership verification question.
// Questions are written once at item creation and never edited afterwards.
// The correct choice is never serialized towards claimants.
type SecurityQuestion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FoundItemID uint      `gorm:"index;not null" json:"found_item_id"`
	Text        string    `gorm:"type:varchar(500);not null" json:"text"`
	Choices     Choices   `gorm:"type:json;not null" json:"choices"`
	CorrectIdx  int       `gorm:"not null" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
