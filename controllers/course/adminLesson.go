package controllers

import (
	"ruralearn/database"
	"ruralearn/middleware"
	courseModels "ruralearn/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateLesson appends a lesson to a course. The new lesson takes the
// next order position; the course's denormalized lesson counter is bumped
// in the same transaction.
func AdminCreateLesson(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Duration int    `json:"duration"`
		VideoURL string `json:"video_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Next order position
	var maxOrder int
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)

	lesson := courseModels.Lesson{
		CourseID:   uint(courseID),
		Title:      reqData.Title,
		Content:    reqData.Content,
		Duration:   reqData.Duration,
		VideoURL:   reqData.VideoURL,
		OrderIndex: maxOrder + 1,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&lesson).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}
	if err := tx.Model(&courseModels.Course{}).Where("id = ?", courseID).
		Update("lessons", gorm.Expr("lessons + 1")).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AdminUpdateLesson updates lesson fields (not its position)
func AdminUpdateLesson(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedLessonUpdate").(*struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Duration int    `json:"duration"`
		VideoURL string `json:"video_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.Content != "" {
		lesson.Content = reqData.Content
	}
	if reqData.Duration > 0 {
		lesson.Duration = reqData.Duration
	}
	if reqData.VideoURL != "" {
		lesson.VideoURL = reqData.VideoURL
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// AdminDeleteLesson soft deletes a lesson, decrements the course counter
// and closes the gap in the remaining order positions, all in one
// transaction.
func AdminDeleteLesson(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Model(&lesson).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}
	if err := tx.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND order_index > ?", courseID, false, lesson.OrderIndex).
		Update("order_index", gorm.Expr("order_index - 1")).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}
	if err := tx.Model(&courseModels.Course{}).Where("id = ? AND lessons > 0", courseID).
		Update("lessons", gorm.Expr("lessons - 1")).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// AdminListLessons lists a course's lessons in order
func AdminListLessons(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var lessons []courseModels.Lesson
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": lessons,
		"total":   len(lessons),
	})
}

// AdminReorderLessons renumbers a course's lessons from a full ordered id
// list in a single transaction. Every lesson of the course must appear
// exactly once; partial lists are rejected so no transient duplicate
// positions are ever visible.
func AdminReorderLessons(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedReorder").(*struct {
		LessonIDs []uint `json:"lesson_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var currentIDs []uint
	if err := database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Pluck("id", &currentIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	if len(reqData.LessonIDs) != len(currentIDs) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reorder must include every lesson of the course exactly once!", nil)
	}
	existing := make(map[uint]bool, len(currentIDs))
	for _, id := range currentIDs {
		existing[id] = true
	}
	seen := make(map[uint]bool, len(reqData.LessonIDs))
	for _, id := range reqData.LessonIDs {
		if !existing[id] || seen[id] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reorder must include every lesson of the course exactly once!", nil)
		}
		seen[id] = true
	}

	tx := database.Database.Db.Begin()
	for i, id := range reqData.LessonIDs {
		if err := tx.Model(&courseModels.Lesson{}).Where("id = ?", id).
			Update("order_index", i+1).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
		}
	}
	tx.Commit()

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons reordered successfully!", fiber.Map{
		"lessons": lessons,
	})
}
