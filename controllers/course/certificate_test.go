package controllers

import (
	"testing"
	"time"

	courseModels "ruralearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completeAllLessons(t *testing.T, db *gorm.DB, userID uint, lessons []courseModels.Lesson) {
	t.Helper()
	for _, l := range lessons {
		row := courseModels.LessonProgress{
			UserID:       userID,
			LessonID:     l.ID,
			Completed:    true,
			LastAccessed: time.Now(),
		}
		require.NoError(t, db.Create(&row).Error)
	}
}

func TestIssueCertificateWhenEligible(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)
	enroll(t, db, 1, course.ID)
	completeAllLessons(t, db, 1, lessons)

	result, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusIssued, result.Status)
	require.NotNil(t, result.Certificate)
	assert.NotEmpty(t, result.Certificate.CertificateNumber)
	assert.Equal(t, "https://ruralearn.in/certificates/"+result.Certificate.CertificateNumber, result.Certificate.CertificateURL)
}

func TestIssueCertificateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)
	enroll(t, db, 1, course.ID)
	completeAllLessons(t, db, 1, lessons)

	first, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	second, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)

	assert.Equal(t, IssueStatusIssued, first.Status)
	assert.Equal(t, IssueStatusAlreadyIssued, second.Status)
	assert.Equal(t, first.Certificate.CertificateNumber, second.Certificate.CertificateNumber)

	var certs int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", 1, course.ID).Count(&certs)
	assert.Equal(t, int64(1), certs)
}

func TestIssueCertificateReportsMissingLessons(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 3)
	enroll(t, db, 1, course.ID)
	completeAllLessons(t, db, 1, lessons[:1])

	result, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusNotEligible, result.Status)
	assert.Equal(t, 2, result.MissingCount)
	assert.Equal(t, "2 lessons remaining", result.Reason)
	assert.Nil(t, result.Certificate)
}

func TestIssueCertificateZeroLessonCourse(t *testing.T) {
	db := setupTestDB(t)
	course, _ := seedCourseWithLessons(t, db, 0)
	enroll(t, db, 1, course.ID)

	result, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusNotEligible, result.Status)
	assert.Equal(t, "course has no lessons", result.Reason)
}

func TestIssueCertificateSelfHealsStaleEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)
	enroll(t, db, 1, course.ID)
	completeAllLessons(t, db, 1, lessons)

	// Enrollment was left behind by an interrupted earlier update
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", 1, course.ID).
		Updates(map[string]interface{}{"progress": 50, "completed": false}).Error)

	result, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusIssued, result.Status)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.True(t, enrollment.Completed)
	require.NotNil(t, enrollment.CompletedAt)
}

func TestIssueCertificateIgnoresDeletedLessons(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 3)
	enroll(t, db, 1, course.ID)
	completeAllLessons(t, db, 1, lessons[:2])

	require.NoError(t, db.Model(&lessons[2]).Update("is_deleted", true).Error)

	result, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusIssued, result.Status)
}

func TestCertificateUniqueIndexRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	course, _ := seedCourseWithLessons(t, db, 1)

	first := courseModels.Certificate{
		UserID:            1,
		CourseID:          course.ID,
		CertificateNumber: "number-one",
		IssuedAt:          time.Now(),
	}
	require.NoError(t, db.Create(&first).Error)

	duplicate := courseModels.Certificate{
		UserID:            1,
		CourseID:          course.ID,
		CertificateNumber: "number-two",
		IssuedAt:          time.Now(),
	}
	assert.Error(t, db.Create(&duplicate).Error)
}

func TestIssueCertificateLostInsertRaceReturnsWinner(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)
	enroll(t, db, 1, course.ID)
	completeAllLessons(t, db, 1, lessons)

	// Slip a concurrent issuance in between the eligibility checks and the
	// insert, so the insert hits the unique index and must recover by
	// returning the stored row.
	raced := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("concurrent_issuance", func(tx *gorm.DB) {
		cert, ok := tx.Statement.Dest.(*courseModels.Certificate)
		if !ok || raced {
			return
		}
		raced = true
		winner := courseModels.Certificate{
			UserID:            cert.UserID,
			CourseID:          cert.CourseID,
			CertificateNumber: "winner-number",
			CertificateURL:    "https://ruralearn.in/certificates/winner-number",
			IssuedAt:          time.Now(),
		}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&winner).Error)
	}))

	result, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.Equal(t, IssueStatusAlreadyIssued, result.Status)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, "winner-number", result.Certificate.CertificateNumber)

	var certs int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", 1, course.ID).Count(&certs)
	assert.Equal(t, int64(1), certs)
}

func TestIssueCertificateWithoutEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 1)
	completeAllLessons(t, db, 1, lessons)

	result, err := IssueCertificateIfEligible(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusIssued, result.Status)
}
