package controllers

import (
	"ruralearn/database"
	"ruralearn/middleware"
	"ruralearn/models"
	courseModels "ruralearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published courses with optional category/level/search filters
func GetAllCourses(c *fiber.Ctx) error {
	// Optional filters from query params
	category := c.Query("category")
	level := c.Query("level")
	search := c.Query("search")

	// Retrieve validated pagination request
	reqData, _ := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)

	if category != "" {
		db = db.Where("category = ?", category)
	}
	if level != "" {
		db = db.Where("level = ?", level)
	}
	if search != "" {
		db = db.Where("title ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated data
	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseCategories lists the distinct categories of published courses
func GetCourseCategories(c *fiber.Ctx) error {
	var categories []string
	if err := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ?", false, true).
		Distinct().Pluck("category", &categories).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}

// GetCourseDetails gets course details with lessons, the caller's
// enrollment, per-lesson completion flags and certificate (if issued)
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Get lessons in order
	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&lessons)

	// Per-lesson completion for this learner
	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}
	completedSet := make(map[uint]bool)
	if len(lessonIDs) > 0 {
		var completedIDs []uint
		database.Database.Db.Model(&courseModels.LessonProgress{}).
			Where("user_id = ? AND completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
			Pluck("lesson_id", &completedIDs)
		for _, id := range completedIDs {
			completedSet[id] = true
		}
	}

	type LessonWithCompletion struct {
		courseModels.Lesson
		IsCompleted bool `json:"is_completed"`
	}

	result := make([]LessonWithCompletion, len(lessons))
	for i, l := range lessons {
		result[i] = LessonWithCompletion{Lesson: l, IsCompleted: completedSet[l.ID]}
	}

	// Check if user is enrolled
	var enrollment courseModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error == nil

	// Include certificate if already issued
	var certificate *courseModels.Certificate
	var cert courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error; err == nil {
		certificate = &cert
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      course,
		"lessons":     result,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
		"certificate": certificate,
	})
}
