package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Statistic 是可复用的数据统计片段
type Statistic struct {
	gorm.Model
	IconName string `gorm:"size:255;not null"`
	Value    string `gorm:"size:255;not null"`
	Label    string `gorm:"size:255;not null"`
}

func (s Statistic) String() string {
	return s.Label + ":" + s.Value
}

// News 是可复用的新闻片段。删除图片时 ImageID 置空而不级联删除。
type News struct {
	gorm.Model
	Title   string         `gorm:"size:255;not null"`
	Date    datatypes.Date `gorm:"not null"`
	ImageID *uint          `gorm:"index"`
	Image   *Image         `gorm:"constraint:OnDelete:SET NULL;"`
	Excerpt string         `gorm:"type:text;not null"`
	LinkURL string         `gorm:"size:200"`
}

// TableName keeps the uncountable name.
func (News) TableName() string {
	return "news"
}

func (n News) String() string {
	return n.Title
}

// Testimonial is a reusable quote snippet ("Testimonials" in the admin).
type Testimonial struct {
	gorm.Model
	Quote   string `gorm:"type:text;not null"`
	Name    string `gorm:"size:255;not null"`
	Role    string `gorm:"size:255"`
	ImageID *uint  `gorm:"index"`
	Image   *Image `gorm:"constraint:OnDelete:SET NULL;"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}

func (t Testimonial) String() string {
	return t.Name
}
