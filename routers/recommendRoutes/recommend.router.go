package recommendRoutes

import (
	recommendControllers "ruralearn/controllers/recommend"
	"ruralearn/middleware"
	recommendValidators "ruralearn/validators/recommend"

	"github.com/gofiber/fiber/v2"
)

func SetupRecommendRoutes(app *fiber.App) {
	recommendGroup := app.Group("/recommend")

	recommendGroup.Post("/courses", middleware.JWTMiddleware, recommendValidators.Recommendation(), recommendControllers.GetRecommendations)
	recommendGroup.Post("/chat", middleware.JWTMiddleware, recommendControllers.Chat)
}
