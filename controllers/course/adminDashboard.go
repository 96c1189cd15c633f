package controllers

import (
	"time"

	"ruralearn/database"
	"ruralearn/middleware"
	"ruralearn/models"
	courseModels "ruralearn/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminDashboardStats returns platform totals plus this month's activity
func AdminDashboardStats(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	db := database.Database.Db

	var totalUsers, totalCourses, publishedCourses, totalEnrollments, completedEnrollments, totalCertificates int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)
	db.Model(&courseModels.Enrollment{}).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("completed = ?", true).Count(&completedEnrollments)
	db.Model(&courseModels.Certificate{}).Count(&totalCertificates)

	// This month's activity
	monthStart := now.BeginningOfMonth()
	monthEnd := now.EndOfMonth()

	var newUsersThisMonth, enrollmentsThisMonth, certificatesThisMonth int64
	db.Model(&models.User{}).Where("is_deleted = ? AND created_at BETWEEN ? AND ?", false, monthStart, monthEnd).Count(&newUsersThisMonth)
	db.Model(&courseModels.Enrollment{}).Where("created_at BETWEEN ? AND ?", monthStart, monthEnd).Count(&enrollmentsThisMonth)
	db.Model(&courseModels.Certificate{}).Where("issued_at BETWEEN ? AND ?", monthStart, monthEnd).Count(&certificatesThisMonth)

	completionRate := float64(0)
	if totalEnrollments > 0 {
		completionRate = float64(completedEnrollments) / float64(totalEnrollments) * 100
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"totals": fiber.Map{
			"users":                 totalUsers,
			"courses":               totalCourses,
			"published_courses":     publishedCourses,
			"enrollments":           totalEnrollments,
			"completed_enrollments": completedEnrollments,
			"certificates":          totalCertificates,
			"completion_rate":       completionRate,
		},
		"this_month": fiber.Map{
			"new_users":    newUsersThisMonth,
			"enrollments":  enrollmentsThisMonth,
			"certificates": certificatesThisMonth,
			"period_start": monthStart.Format(time.RFC3339),
			"period_end":   monthEnd.Format(time.RFC3339),
		},
	})
}

// AdminCourseStats returns per-course enrollment and completion numbers
func AdminCourseStats(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	db := database.Database.Db

	var enrolled, completed, certified, lessonCount int64
	db.Model(&courseModels.Enrollment{}).Where("course_id = ?", courseID).Count(&enrolled)
	db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND completed = ?", courseID, true).Count(&completed)
	db.Model(&courseModels.Certificate{}).Where("course_id = ?", courseID).Count(&certified)
	db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&lessonCount)

	// Average progress recomputed from enrollments, not the cached counters
	var avgProgress float64
	db.Model(&courseModels.Enrollment{}).Where("course_id = ?", courseID).
		Select("COALESCE(AVG(progress), 0)").Scan(&avgProgress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course stats fetched successfully!", fiber.Map{
		"course_id":        course.ID,
		"course_title":     course.Title,
		"lesson_count":     lessonCount,
		"enrolled":         enrolled,
		"completed":        completed,
		"certified":        certified,
		"average_progress": avgProgress,
	})
}
