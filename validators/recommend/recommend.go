package recommendValidator

import (
	"strings"

	"ruralearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// Recommendation validates the course recommendation request body.
func Recommendation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Interests string `json:"interests"`
			Level     string `json:"level"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Interests) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"interests": "Interests are required!",
			})
		}

		c.Locals("validatedRecommendation", reqData)
		return c.Next()
	}
}
