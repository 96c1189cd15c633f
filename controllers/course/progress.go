package controllers

import (
	"errors"
	"fmt"
	"time"

	courseModels "ruralearn/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reference errors surfaced when a toggle names records that do not exist
// or do not belong together. Anything else coming out of the store is a
// persistence failure and is wrapped with the step that hit it.
var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrLessonNotInCourse = errors.New("lesson does not belong to this course")
)

// ProgressUpdate is returned to the caller so the client can refresh its
// view without a second round trip. Certificate is set only when this
// toggle crossed the 100% line and issued one.
type ProgressUpdate struct {
	Progress    int                       `json:"progress"`
	Completed   bool                      `json:"completed"`
	Certificate *courseModels.Certificate `json:"certificate,omitempty"`
}

// ToggleLessonCompletion upserts the learner's completion flag for one
// lesson, recomputes the course percentage from the stored rows and writes
// it back onto the enrollment. Re-running it with the same arguments
// converges to the same state, so callers may retry after a failure.
func ToggleLessonCompletion(db *gorm.DB, userID, courseID, lessonID uint, completed bool) (*ProgressUpdate, error) {
	// The lesson must belong to the course
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotInCourse
		}
		return nil, fmt.Errorf("toggle completion: lesson lookup: %w", err)
	}

	now := time.Now()
	row := courseModels.LessonProgress{
		UserID:       userID,
		LessonID:     lessonID,
		Completed:    completed,
		LastAccessed: now,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":     completed,
			"last_accessed": now,
			"updated_at":    now,
		}),
	}).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("toggle completion: progress upsert: %w", err)
	}

	update, err := RecomputeEnrollmentProgress(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	// 100% transition: hand over to the certificate issuer. The issuer
	// re-verifies against the store and is a no-op if one already exists.
	if update.Progress == 100 {
		result, err := IssueCertificateIfEligible(db, userID, courseID)
		if err != nil {
			return nil, err
		}
		if result.Status == IssueStatusIssued {
			update.Certificate = result.Certificate
		}
	}

	return update, nil
}

// RecomputeEnrollmentProgress recounts completed lessons for the learner
// against the course's lessons and derives the percentage. Denormalized
// course counters are never consulted. A course with zero lessons is 0%
// and never completed. When no enrollment exists the computed values are
// still returned but nothing is written.
func RecomputeEnrollmentProgress(db *gorm.DB, userID, courseID uint) (*ProgressUpdate, error) {
	var totalLessons int64
	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&totalLessons).Error; err != nil {
		return nil, fmt.Errorf("recompute progress: lesson count: %w", err)
	}

	var completedLessons int64
	if err := db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.user_id = ? AND lesson_progresses.completed = ? AND lessons.course_id = ? AND lessons.is_deleted = ?",
			userID, true, courseID, false).
		Count(&completedLessons).Error; err != nil {
		return nil, fmt.Errorf("recompute progress: completion count: %w", err)
	}

	progress := 0
	if totalLessons > 0 {
		progress = int(100 * completedLessons / totalLessons)
	}
	completed := totalLessons > 0 && progress == 100

	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Learner is not enrolled; lesson progress still counts but
			// there is no enrollment row to update.
			return &ProgressUpdate{Progress: progress, Completed: completed}, nil
		}
		return nil, fmt.Errorf("recompute progress: enrollment lookup: %w", err)
	}

	now := time.Now()
	enrollment.Progress = progress
	enrollment.Completed = completed
	enrollment.LastAccessed = now
	if completed {
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	} else {
		enrollment.CompletedAt = nil
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return nil, fmt.Errorf("recompute progress: enrollment update: %w", err)
	}

	return &ProgressUpdate{Progress: progress, Completed: completed}, nil
}
