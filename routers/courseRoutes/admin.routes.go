package courseRoutes

import (
	controllers "ruralearn/controllers/course"
	"ruralearn/middleware"
	validators "ruralearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes.
// Every route is gated by the permission seeded for the ADMIN role on
// signup; controllers re-check the role themselves.
func SetupAdminCourseRoutes(app *fiber.App) {
	manageCourses := middleware.CheckPermissionMiddleware("manage-courses")
	manageLessons := middleware.CheckPermissionMiddleware("manage-lessons")
	viewDashboard := middleware.CheckPermissionMiddleware("view-dashboard")

	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, manageCourses, validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, manageCourses, validators.CourseList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/:courseId", middleware.JWTMiddleware, manageCourses, validators.CourseID(), validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:courseId", middleware.JWTMiddleware, manageCourses, validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:courseId/publish", middleware.JWTMiddleware, manageCourses, validators.CourseID(), controllers.AdminPublishCourse)

	// Lesson management
	adminGroup.Post("/:courseId/lesson", middleware.JWTMiddleware, manageLessons, validators.CourseID(), validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Get("/:courseId/lessons", middleware.JWTMiddleware, manageLessons, validators.CourseID(), controllers.AdminListLessons)
	adminGroup.Put("/:courseId/lesson/:lessonId", middleware.JWTMiddleware, manageLessons, validators.CourseID(), validators.LessonID(), validators.UpdateLesson(), controllers.AdminUpdateLesson)
	adminGroup.Delete("/:courseId/lesson/:lessonId", middleware.JWTMiddleware, manageLessons, validators.CourseID(), validators.LessonID(), controllers.AdminDeleteLesson)
	adminGroup.Post("/:courseId/lessons/reorder", middleware.JWTMiddleware, manageLessons, validators.CourseID(), validators.ReorderLessons(), controllers.AdminReorderLessons)

	// Enrollment and progress tracking
	adminGroup.Get("/:courseId/enrollments", middleware.JWTMiddleware, viewDashboard, validators.CourseID(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:courseId/stats", middleware.JWTMiddleware, viewDashboard, validators.CourseID(), controllers.AdminCourseStats)

	studentGroup := app.Group("/admin/student")
	studentGroup.Get("/:studentId/progress", middleware.JWTMiddleware, viewDashboard, validators.StudentID(), controllers.AdminGetStudentProgress)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware, viewDashboard, controllers.AdminDashboardStats)
}
