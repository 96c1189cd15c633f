package recommendController

import (
	"fmt"
	"sort"
	"strings"

	"ruralearn/database"
	"ruralearn/middleware"
	"ruralearn/models"
	courseModels "ruralearn/models/course"

	"github.com/gofiber/fiber/v2"
)

const maxRecommendations = 5

// UserPreferences feeds the relevance scoring. CompletedCategories are the
// categories of courses the learner already finished.
type UserPreferences struct {
	Categories          []string
	PreferredLevel      string
	CompletedCategories []string
}

// relevanceScore ranks a course against the learner's profile: preferred
// category +3, preferred level +2, previously completed category +1.
func relevanceScore(course courseModels.Course, prefs UserPreferences) int {
	score := 0
	for _, cat := range prefs.Categories {
		if strings.EqualFold(course.Category, cat) {
			score += 3
			break
		}
	}
	if prefs.PreferredLevel != "" && strings.EqualFold(course.Level, prefs.PreferredLevel) {
		score += 2
	}
	for _, cat := range prefs.CompletedCategories {
		if strings.EqualFold(course.Category, cat) {
			score++
			break
		}
	}
	return score
}

// FilterCourses applies interest/level filters, ranks by relevance and caps
// the result. When nothing matches it falls back to the first few courses
// so the learner always gets something to look at.
func FilterCourses(courses []courseModels.Course, interests, level string, prefs *UserPreferences) []courseModels.Course {
	filtered := make([]courseModels.Course, 0, len(courses))
	for _, course := range courses {
		if interests != "" && !strings.EqualFold(course.Category, interests) {
			continue
		}
		if level != "" && !strings.EqualFold(course.Level, level) {
			continue
		}
		filtered = append(filtered, course)
	}

	if prefs != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return relevanceScore(filtered[i], *prefs) > relevanceScore(filtered[j], *prefs)
		})
	}

	if len(filtered) == 0 {
		if len(courses) > 3 {
			return courses[:3]
		}
		return courses
	}
	if len(filtered) > maxRecommendations {
		filtered = filtered[:maxRecommendations]
	}
	return filtered
}

// BuildMessage generates the personalized recommendation message
func BuildMessage(interests, level string, hasProfile bool) string {
	message := "Based on your interests"
	if interests != "" {
		message += fmt.Sprintf(" in %s", interests)
	}
	if level != "" {
		message += fmt.Sprintf(" and %s level", level)
	}
	if hasProfile {
		message += ", and your learning profile"
	}
	message += ", I recommend these courses to help you develop valuable skills for rural areas."
	return message
}

// loadPreferences assembles the learner's profile from their stored
// preferences and the categories of courses they completed
func loadPreferences(userID uint) *UserPreferences {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil
	}

	prefs := UserPreferences{PreferredLevel: user.PreferredLevel}
	if user.PreferredCategory != "" {
		prefs.Categories = []string{user.PreferredCategory}
	}

	var completedCategories []string
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ? AND enrollments.completed = ?", userID, true).
		Distinct().Pluck("courses.category", &completedCategories)
	prefs.CompletedCategories = completedCategories

	if len(prefs.Categories) == 0 && prefs.PreferredLevel == "" && len(prefs.CompletedCategories) == 0 {
		return nil
	}
	return &prefs
}

// GetRecommendations filters the published catalog by the requested
// interest/level and ranks it against the learner's profile
func GetRecommendations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedRecommendation").(*struct {
		Interests string `json:"interests"`
		Level     string `json:"level"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ? AND is_published = ?", false, true).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	prefs := loadPreferences(userID)
	recommendations := FilterCourses(courses, reqData.Interests, reqData.Level, prefs)
	message := BuildMessage(reqData.Interests, reqData.Level, prefs != nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommendations generated successfully!", fiber.Map{
		"recommendations": recommendations,
		"message":         message,
	})
}
