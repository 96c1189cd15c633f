package controllers

import (
	"errors"
	"log"
	"time"

	"ruralearn/database"
	"ruralearn/middleware"
	"ruralearn/models"
	courseModels "ruralearn/models/course"
	"ruralearn/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// GetLessonView gets a lesson with prev/next navigation for the course,
// the learner's completion status and current course progress. Viewing a
// lesson refreshes the last-accessed stamps.
func GetLessonView(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	// All lessons in order for prev/next navigation
	var allLessons []courseModels.Lesson
	database.Database.Db.Select("id, title, order_index").
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&allLessons)

	var prevLesson, nextLesson *courseModels.Lesson
	for i := range allLessons {
		if allLessons[i].ID == lesson.ID {
			if i > 0 {
				prevLesson = &allLessons[i-1]
			}
			if i < len(allLessons)-1 {
				nextLesson = &allLessons[i+1]
			}
			break
		}
	}

	// Completion status for this lesson
	isCompleted := false
	var progressRow courseModels.LessonProgress
	if err := database.Database.Db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progressRow).Error; err == nil {
		isCompleted = progressRow.Completed
	}

	// Refresh last-accessed stamps without blocking the response
	go func(userID, lessonID, courseID uint, completed bool) {
		now := time.Now()
		row := courseModels.LessonProgress{
			UserID:       userID,
			LessonID:     lessonID,
			Completed:    completed,
			LastAccessed: now,
		}
		if err := database.Database.Db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_accessed": now, "updated_at": now}),
		}).Create(&row).Error; err != nil {
			log.Printf("Error updating lesson last_accessed: %v", err)
			return
		}
		database.Database.Db.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Update("last_accessed", now)
	}(userID, uint(lessonID), uint(courseID), isCompleted)

	// Current course progress for the progress bar
	progress := 0
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err == nil {
		progress = enrollment.Progress
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"course":       fiber.Map{"id": course.ID, "title": course.Title},
		"lesson":       lesson,
		"prev_lesson":  prevLesson,
		"next_lesson":  nextLesson,
		"is_completed": isCompleted,
		"progress":     progress,
	})
}

// ToggleCompletion marks a lesson complete or incomplete for the learner
// and returns the recomputed course progress
func ToggleCompletion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedToggle").(*struct {
		Completed *bool `json:"completed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	update, err := ToggleLessonCompletion(database.Database.Db, userID, uint(courseID), uint(lessonID), *reqData.Completed)
	if err != nil {
		if errors.Is(err, ErrLessonNotInCourse) || errors.Is(err, ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this course!", nil)
		}
		log.Printf("Error toggling lesson completion for user %d lesson %d: %v", userID, lessonID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	message := "Lesson marked as incomplete."
	if *reqData.Completed {
		message = "Lesson marked as completed!"
	}
	if update.Certificate != nil {
		message = "Course completed! Your certificate has been issued."
		go func(email, name string, certURL string, courseID uint) {
			var course courseModels.Course
			if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err == nil {
				utils.SendCertificateEmail(email, name, course.Title, certURL)
			}
		}(user.Email, user.Name, update.Certificate.CertificateURL, uint(courseID))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, update)
}
