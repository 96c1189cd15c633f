package course

import "gorm.io/gorm"

// Lesson belongs to exactly one course. OrderIndex positions it within the
// course; reordering rewrites the whole sequence in one transaction.
type Lesson struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	Content    string `json:"content" gorm:"type:text"`
	Duration   int    `json:"duration" gorm:"default:0"` // minutes
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	VideoURL   string `json:"video_url"`
	IsDeleted  bool   `gorm:"default:false"`
}
