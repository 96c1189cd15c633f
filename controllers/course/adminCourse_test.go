package controllers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"ruralearn/database"
	"ruralearn/middleware"
	"ruralearn/models"
	courseModels "ruralearn/models/course"
	courseValidator "ruralearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Permission{}))
	database.Database = database.DbInstance{Db: db}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string, permissions ...string) models.User {
	t.Helper()

	user := models.User{
		Name:     "Test " + role,
		Email:    role + "@example.com",
		Role:     role,
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)

	for _, p := range permissions {
		require.NoError(t, db.Create(&models.Permission{
			UserID:     user.ID,
			Role:       role,
			Permission: p,
		}).Error)
	}
	return user
}

// newCreateCourseApp mounts AdminCreateCourse the way the admin router
// does, with a stub in place of the JWT middleware.
func newCreateCourseApp(userID uint, withPermissionGate bool) *fiber.App {
	app := fiber.New()

	handlers := []fiber.Handler{func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}}
	if withPermissionGate {
		handlers = append(handlers, middleware.CheckPermissionMiddleware("manage-courses"))
	}
	handlers = append(handlers, courseValidator.CreateCourse(), AdminCreateCourse)

	app.Post("/admin/course/create", handlers...)
	return app
}

func postCreateCourse(t *testing.T, app *fiber.App) int {
	t.Helper()

	body := []byte(`{"title":"Goat Rearing","description":"Raising goats for milk and meat","category":"Agriculture","level":"Beginner"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/admin/course/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAdminCreateCourseRejectsNonAdminRole(t *testing.T) {
	db := setupAdminTestDB(t)
	user := createTestUser(t, db, "USER")

	// Even without the route-level permission gate the handler's own role
	// check must block the write
	status := postCreateCourse(t, newCreateCourseApp(user.ID, false))
	assert.Equal(t, fiber.StatusForbidden, status)

	var count int64
	db.Model(&courseModels.Course{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAdminCreateCourseRejectsMissingPermission(t *testing.T) {
	db := setupAdminTestDB(t)
	user := createTestUser(t, db, "USER")

	status := postCreateCourse(t, newCreateCourseApp(user.ID, true))
	assert.Equal(t, fiber.StatusForbidden, status)

	var count int64
	db.Model(&courseModels.Course{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAdminCreateCourseAllowsAdmin(t *testing.T) {
	db := setupAdminTestDB(t)
	admin := createTestUser(t, db, "ADMIN", "manage-courses")

	status := postCreateCourse(t, newCreateCourseApp(admin.ID, true))
	assert.Equal(t, fiber.StatusCreated, status)

	var course courseModels.Course
	require.NoError(t, db.Where("title = ?", "Goat Rearing").First(&course).Error)
	assert.False(t, course.IsPublished)
}
