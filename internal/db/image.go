package db

import "gorm.io/gorm"

// Image 定义可被片段与页面区块共享引用的图片资源
type Image struct {
	gorm.Model
	Title    string `gorm:"size:255;not null"`
	FileName string `gorm:"size:255;not null"`
	URL      string `gorm:"size:512;not null"`
	Width    int
	Height   int
	FileSize int64
}
