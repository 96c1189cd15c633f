package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress tracks a learner's completion of a single lesson.
// Upserted on the (user, lesson) unique key by the completion toggle and
// by the certificate issuer's self-heal pass.
type LessonProgress struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	LessonID     uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	Completed    bool      `json:"completed" gorm:"default:false"`
	LastAccessed time.Time `json:"last_accessed"`
}
