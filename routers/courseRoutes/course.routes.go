package courseRoutes

import (
	controllers "ruralearn/controllers/course"
	"ruralearn/middleware"
	validators "ruralearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog browsing
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/categories", middleware.JWTMiddleware, controllers.GetCourseCategories)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:courseId/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Delete("/:courseId/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.UnenrollFromCourse)

	// Lesson viewing and completion
	courseGroup.Get("/:courseId/lesson/:lessonId", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.GetLessonView)
	courseGroup.Post("/:courseId/lesson/:lessonId/complete", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), validators.ToggleCompletion(), controllers.ToggleCompletion)

	// Completion report and certificate request
	courseGroup.Get("/:courseId/report", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCompletionReport)
	courseGroup.Post("/:courseId/certificate/request", middleware.JWTMiddleware, validators.CourseID(), controllers.RequestCertificate)

	// User enrollments and certificates
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public certificate verification
	app.Get("/certificate/verify/:number", controllers.VerifyCertificate)
}
