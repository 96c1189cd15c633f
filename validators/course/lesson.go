package courseValidator

import (
	"strconv"

	"ruralearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// LessonID parses and validates the :lessonId route param.
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("lessonId"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
		}

		c.Locals("lessonID", id)
		return c.Next()
	}
}

// ToggleCompletion validates the lesson completion toggle body.
func ToggleCompletion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Completed *bool `json:"completed"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Completed == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"completed": "Completed is required!",
			})
		}

		c.Locals("validatedToggle", reqData)
		return c.Next()
	}
}
