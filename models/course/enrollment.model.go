package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a learner's enrollment in a course with progress.
// At most one enrollment exists per (user, course) pair.
type Enrollment struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID     uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Progress     int        `json:"progress" gorm:"default:0"` // completion percentage 0-100
	Completed    bool       `json:"completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastAccessed time.Time  `json:"last_accessed"`
}
