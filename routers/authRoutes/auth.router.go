package authRoutes

import (
	authControllers "ruralearn/controllers/auth"
	"ruralearn/middleware"
	authValidators "ruralearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	authGroup.Patch("/preferences", authValidators.Preferences(), middleware.JWTMiddleware, authControllers.UpdatePreferences)
}
