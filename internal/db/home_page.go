package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HomePage is the site landing page. Body holds the ordered block stream as
// a JSON list of {"type","value","id"} entries; it may be NULL.
type HomePage struct {
	gorm.Model
	Title string `gorm:"size:255;not null"`
	Slug  string `gorm:"size:255;uniqueIndex;not null"`
	Body  datatypes.JSON
}
