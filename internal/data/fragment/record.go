package fragment

import "gorm.io/gorm"

// Record is a named include fragment persisted in the database.
type Record struct {
	gorm.Model
	Name string `gorm:"size:128;uniqueIndex:idx_fragments_name;not null"`
	HTML string `gorm:"type:text;not null"`
}

// TableName defines the table name for the fragment model.
func (Record) TableName() string {
	return "fragments"
}
