package authValidator

import (
	"ruralearn/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// validationErrors flattens validator.ValidationErrors into a field -> message map.
func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			switch verr.Tag() {
			case "required":
				errors[verr.Field()] = verr.Field() + " is required!"
			case "email":
				errors[verr.Field()] = "Invalid email!"
			case "min":
				errors[verr.Field()] = verr.Field() + " must be at least " + verr.Param() + " characters long!"
			case "oneof":
				errors[verr.Field()] = verr.Field() + " must be one of: " + verr.Param()
			default:
				errors[verr.Field()] = "Invalid " + verr.Field() + "!"
			}
		}
	} else {
		errors["request"] = "Invalid request data!"
	}
	return errors
}

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name" validate:"required,min=2"`
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=8"`
			Village  string `json:"village"`
			District string `json:"district"`
			State    string `json:"state"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// Preferences validator middleware
func Preferences() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PreferredCategory string `json:"preferred_category"`
			PreferredLevel    string `json:"preferred_level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedPreferences", reqData)
		return c.Next()
	}
}
