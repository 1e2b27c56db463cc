package dbstore

import (
	"time"
)

// EntryModel represents one key-value pair in the database.
// Values are whole JSON documents or scalars; they are always replaced,
// never patched.
type EntryModel struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for EntryModel
func (EntryModel) TableName() string {
	return "entries"
}
