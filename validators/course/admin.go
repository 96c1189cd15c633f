package courseValidator

import (
	"strconv"
	"strings"

	"ruralearn/middleware"
	courseModels "ruralearn/models/course"

	"github.com/gofiber/fiber/v2"
)

func isValidLevel(level string) bool {
	switch level {
	case courseModels.LevelBeginner, courseModels.LevelIntermediate, courseModels.LevelAdvanced:
		return true
	}
	return false
}

// StudentID parses and validates the :studentId route param.
func StudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("studentId"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student id!", nil)
		}

		c.Locals("studentID", id)
		return c.Next()
	}
}

// CreateCourse validates the admin course creation body.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Level       string `json:"level"`
			Duration    string `json:"duration"`
			ImageURL    string `json:"image_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		if strings.TrimSpace(reqData.Category) == "" {
			errors["category"] = "Category is required!"
		}

		if !isValidLevel(reqData.Level) {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the admin course update body. All fields are
// optional; only non-empty values are applied.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Level       string `json:"level"`
			Duration    string `json:"duration"`
			ImageURL    string `json:"image_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Level != "" && !isValidLevel(reqData.Level) {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CreateLesson validates the admin lesson creation body.
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Duration int    `json:"duration"`
			VideoURL string `json:"video_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validates the admin lesson update body.
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Duration int    `json:"duration"`
			VideoURL string `json:"video_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Duration < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"duration": "Duration cannot be negative!",
			})
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

// ReorderLessons validates the lesson reorder body.
func ReorderLessons() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			LessonIDs []uint `json:"lesson_ids"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.LessonIDs) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"lesson_ids": "Lesson ids are required!",
			})
		}

		seen := make(map[uint]bool, len(reqData.LessonIDs))
		for _, id := range reqData.LessonIDs {
			if seen[id] {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"lesson_ids": "Duplicate lesson ids are not allowed!",
				})
			}
			seen[id] = true
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}
