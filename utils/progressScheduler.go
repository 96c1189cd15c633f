package utils

import (
	"log"
	"strconv"
	"time"

	"ruralearn/database"
	courseModels "ruralearn/models/course"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[PROGRESS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializeProgressScheduler sets up the nightly reconciliation job
func InitializeProgressScheduler() {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	// Run daily at 2 AM to reconcile progress and counters
	c.AddFunc("0 2 * * *", func() {
		logScheduler("Running nightly reconciliation...")
		ReconcileEnrollmentProgress()
		ReconcileCourseCounters()
	})

	c.Start()
	log.Println("[PROGRESS-SCHEDULER] Progress scheduler started - runs daily at 2 AM")
}

// ReconcileEnrollmentProgress recomputes every enrollment's percentage from
// the authoritative lesson and lesson-progress rows. This heals any
// enrollment left stale by a toggle that failed after its progress upsert
// succeeded.
func ReconcileEnrollmentProgress() {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Find(&enrollments).Error; err != nil {
		logScheduler("Error fetching enrollments: " + err.Error())
		return
	}

	fixed := 0
	for _, enrollment := range enrollments {
		var totalLessons int64
		if err := db.Model(&courseModels.Lesson{}).
			Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
			Count(&totalLessons).Error; err != nil {
			logScheduler("Error counting lessons: " + err.Error())
			continue
		}

		var completedLessons int64
		if err := db.Model(&courseModels.LessonProgress{}).
			Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
			Where("lesson_progresses.user_id = ? AND lesson_progresses.completed = ? AND lessons.course_id = ? AND lessons.is_deleted = ?",
				enrollment.UserID, true, enrollment.CourseID, false).
			Count(&completedLessons).Error; err != nil {
			logScheduler("Error counting completions: " + err.Error())
			continue
		}

		progress := 0
		if totalLessons > 0 {
			progress = int(100 * completedLessons / totalLessons)
		}
		completed := totalLessons > 0 && progress == 100

		if enrollment.Progress == progress && enrollment.Completed == completed {
			continue
		}

		updates := map[string]interface{}{
			"progress":  progress,
			"completed": completed,
		}
		if completed {
			if enrollment.CompletedAt == nil {
				updates["completed_at"] = time.Now()
			}
		} else {
			updates["completed_at"] = gorm.Expr("NULL")
		}
		if err := db.Model(&courseModels.Enrollment{}).Where("id = ?", enrollment.ID).
			Updates(updates).Error; err != nil {
			logScheduler("Error updating enrollment: " + err.Error())
			continue
		}
		fixed++
	}

	logScheduler("Enrollment reconciliation done, " + strconv.Itoa(fixed) + " rows corrected")
}

// ReconcileCourseCounters recomputes the denormalized students/lessons
// counters on every course from exact counts
func ReconcileCourseCounters() {
	db := database.Database.Db

	var courses []courseModels.Course
	if err := db.Where("is_deleted = ?", false).Find(&courses).Error; err != nil {
		logScheduler("Error fetching courses: " + err.Error())
		return
	}

	fixed := 0
	for _, course := range courses {
		var students, lessons int64
		db.Model(&courseModels.Enrollment{}).Where("course_id = ?", course.ID).Count(&students)
		db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&lessons)

		if course.Students == int(students) && course.Lessons == int(lessons) {
			continue
		}

		if err := db.Model(&courseModels.Course{}).Where("id = ?", course.ID).
			Updates(map[string]interface{}{"students": students, "lessons": lessons}).Error; err != nil {
			logScheduler("Error updating course counters: " + err.Error())
			continue
		}
		fixed++
	}

	logScheduler("Course counter reconciliation done, " + strconv.Itoa(fixed) + " rows corrected")
}
