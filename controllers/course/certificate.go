package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"ruralearn/config"
	"ruralearn/database"
	"ruralearn/middleware"
	"ruralearn/models"
	courseModels "ruralearn/models/course"
	"ruralearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Issue statuses
const (
	IssueStatusIssued        = "ISSUED"
	IssueStatusAlreadyIssued = "ALREADY_ISSUED"
	IssueStatusNotEligible   = "NOT_ELIGIBLE"
)

// IssueResult reports the outcome of an issuance attempt. NotEligible and
// AlreadyIssued are negative results, not errors; the caller presents them
// to the learner.
type IssueResult struct {
	Status       string                    `json:"status"`
	Certificate  *courseModels.Certificate `json:"certificate,omitempty"`
	MissingCount int                       `json:"missing_count,omitempty"`
	Reason       string                    `json:"reason,omitempty"`
}

// IssueCertificateIfEligible issues at most one certificate per
// (user, course) pair. It never trusts enrollment state: eligibility is
// re-verified against the lesson and lesson-progress tables before the
// insert, and a course without lessons is never eligible. The composite
// unique index on certificates settles concurrent calls; losing the race
// is reported as AlreadyIssued with the surviving row.
func IssueCertificateIfEligible(db *gorm.DB, userID, courseID uint) (*IssueResult, error) {
	// Step 1: existence guard, idempotent no-op when already issued
	var existing courseModels.Certificate
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return &IssueResult{Status: IssueStatusAlreadyIssued, Certificate: &existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("issue certificate: existence check: %w", err)
	}

	// Step 2: authoritative re-check of the course's lessons
	var lessonIDs []uint
	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Pluck("id", &lessonIDs).Error; err != nil {
		return nil, fmt.Errorf("issue certificate: lesson fetch: %w", err)
	}
	if len(lessonIDs) == 0 {
		return &IssueResult{Status: IssueStatusNotEligible, Reason: "course has no lessons"}, nil
	}

	// Step 3: completed set, missing count surfaced to the learner
	var completedIDs []uint
	if err := db.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
		Pluck("lesson_id", &completedIDs).Error; err != nil {
		return nil, fmt.Errorf("issue certificate: completion fetch: %w", err)
	}
	missing := len(lessonIDs) - len(completedIDs)
	if missing > 0 {
		return &IssueResult{
			Status:       IssueStatusNotEligible,
			MissingCount: missing,
			Reason:       fmt.Sprintf("%d lessons remaining", missing),
		}, nil
	}

	// Step 4: self-heal. Re-assert every completion row and force the
	// enrollment to 100%, correcting any partial write left by an earlier
	// failed toggle.
	now := time.Now()
	for _, id := range lessonIDs {
		row := courseModels.LessonProgress{
			UserID:       userID,
			LessonID:     id,
			Completed:    true,
			LastAccessed: now,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed":     true,
				"last_accessed": now,
				"updated_at":    now,
			}),
		}).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("issue certificate: self-heal upsert: %w", err)
		}
	}
	if err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]interface{}{
			"progress":      100,
			"completed":     true,
			"completed_at":  now,
			"last_accessed": now,
		}).Error; err != nil {
		return nil, fmt.Errorf("issue certificate: enrollment update: %w", err)
	}

	// Step 5: single insert; the unique index settles concurrent attempts
	cert := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: uuid.NewString(),
		IssuedAt:          now,
	}
	cert.CertificateURL = fmt.Sprintf("%s/%s", config.AppConfig.CertificateBaseURL, cert.CertificateNumber)

	if err := db.Create(&cert).Error; err != nil {
		// Lost the race against a concurrent issuance; the stored row wins
		var winner courseModels.Certificate
		if ferr := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&winner).Error; ferr == nil {
			return &IssueResult{Status: IssueStatusAlreadyIssued, Certificate: &winner}, nil
		}
		return nil, fmt.Errorf("issue certificate: insert: %w", err)
	}

	return &IssueResult{Status: IssueStatusIssued, Certificate: &cert}, nil
}

// RequestCertificate lets a learner request their certificate explicitly
func RequestCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	result, err := IssueCertificateIfEligible(database.Database.Db, userID, uint(courseID))
	if err != nil {
		log.Printf("Error issuing certificate for user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	switch result.Status {
	case IssueStatusNotEligible:
		if result.MissingCount > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				fmt.Sprintf("Please complete all lessons first. You still have %d lessons to complete.", result.MissingCount), result)
		}
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course has no lessons yet.", result)
	case IssueStatusAlreadyIssued:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", result)
	default:
		go utils.SendCertificateEmail(user.Email, user.Name, course.Title, result.Certificate.CertificateURL)
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", result)
	}
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle    string `json:"course_title"`
		CourseCategory string `json:"course_category"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate:    cert,
			CourseTitle:    course.Title,
			CourseCategory: course.Category,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// VerifyCertificate looks up a certificate by its public number. No auth:
// employers and institutions use this to confirm authenticity.
func VerifyCertificate(c *fiber.Ctx) error {
	number := c.Params("number")
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("certificate_number = ?", number).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var course courseModels.Course
	database.Database.Db.Where("id = ?", cert.CourseID).First(&course)

	var user models.User
	database.Database.Db.Select("name").Where("id = ?", cert.UserID).First(&user)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"certificate_number": cert.CertificateNumber,
		"issued_at":          cert.IssuedAt,
		"course_title":       course.Title,
		"learner_name":       user.Name,
	})
}

// GetCompletionReport surfaces the lesson-by-lesson completion breakdown
// for a course, including which lessons still block the certificate.
func GetCompletionReport(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var lessons []courseModels.Lesson
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}

	completedSet := make(map[uint]bool)
	if len(lessonIDs) > 0 {
		var completedIDs []uint
		database.Database.Db.Model(&courseModels.LessonProgress{}).
			Where("user_id = ? AND completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
			Pluck("lesson_id", &completedIDs)
		for _, id := range completedIDs {
			completedSet[id] = true
		}
	}

	type LessonStatus struct {
		LessonID  uint   `json:"lesson_id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}

	report := make([]LessonStatus, len(lessons))
	missing := 0
	for i, l := range lessons {
		done := completedSet[l.ID]
		if !done {
			missing++
		}
		report[i] = LessonStatus{LessonID: l.ID, Title: l.Title, Completed: done}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion report fetched successfully!", fiber.Map{
		"total_lessons":     len(lessons),
		"completed_lessons": len(lessons) - missing,
		"missing_lessons":   missing,
		"lessons":           report,
	})
}
