package controllers

import (
	"testing"

	"ruralearn/config"
	courseModels "ruralearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.LessonProgress{},
		&courseModels.Certificate{},
	))

	config.AppConfig = &config.Config{
		CertificateBaseURL: "https://ruralearn.in/certificates",
	}

	return db
}

func seedCourseWithLessons(t *testing.T, db *gorm.DB, lessonCount int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()

	course := courseModels.Course{
		Title:       "Organic Farming Basics",
		Category:    "Agriculture",
		Level:       courseModels.LevelBeginner,
		IsPublished: true,
		Lessons:     lessonCount,
	}
	require.NoError(t, db.Create(&course).Error)

	lessons := make([]courseModels.Lesson, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lessons[i] = courseModels.Lesson{
			CourseID:   course.ID,
			Title:      "Lesson",
			OrderIndex: i + 1,
			Duration:   30,
		}
		require.NoError(t, db.Create(&lessons[i]).Error)
	}

	return course, lessons
}

func enroll(t *testing.T, db *gorm.DB, userID, courseID uint) courseModels.Enrollment {
	t.Helper()

	enrollment := courseModels.Enrollment{UserID: userID, CourseID: courseID}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func TestToggleLessonCompletionUpdatesProgress(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 3)
	enroll(t, db, 1, course.ID)

	update, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 33, update.Progress)
	assert.False(t, update.Completed)
	assert.Nil(t, update.Certificate)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, 33, enrollment.Progress)
	assert.False(t, enrollment.Completed)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestToggleLessonCompletionIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 4)
	enroll(t, db, 1, course.ID)

	first, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, true)
	require.NoError(t, err)
	second, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, true)
	require.NoError(t, err)

	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, 25, second.Progress)

	var rows int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ? AND lesson_id = ?", 1, lessons[0].ID).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestToggleLessonCompletionUnmarkLowersProgress(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)
	enroll(t, db, 1, course.ID)

	_, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, true)
	require.NoError(t, err)
	update, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, false)
	require.NoError(t, err)

	assert.Equal(t, 0, update.Progress)
	assert.False(t, update.Completed)
}

func TestToggleLessonCompletionRejectsForeignLesson(t *testing.T) {
	db := setupTestDB(t)
	courseA, _ := seedCourseWithLessons(t, db, 2)
	_, lessonsB := seedCourseWithLessons(t, db, 1)
	enroll(t, db, 1, courseA.ID)

	_, err := ToggleLessonCompletion(db, 1, courseA.ID, lessonsB[0].ID, true)
	assert.ErrorIs(t, err, ErrLessonNotInCourse)
}

func TestToggleLessonCompletionWithoutEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)

	update, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 50, update.Progress)

	var enrollments int64
	db.Model(&courseModels.Enrollment{}).Count(&enrollments)
	assert.Equal(t, int64(0), enrollments)
}

func TestFinalToggleCompletesCourseAndIssuesCertificate(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 3)
	enroll(t, db, 1, course.ID)

	for _, l := range lessons[:2] {
		_, err := ToggleLessonCompletion(db, 1, course.ID, l.ID, true)
		require.NoError(t, err)
	}

	update, err := ToggleLessonCompletion(db, 1, course.ID, lessons[2].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 100, update.Progress)
	assert.True(t, update.Completed)
	require.NotNil(t, update.Certificate)
	assert.NotEmpty(t, update.Certificate.CertificateNumber)
	assert.Contains(t, update.Certificate.CertificateURL, update.Certificate.CertificateNumber)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.True(t, enrollment.Completed)
	require.NotNil(t, enrollment.CompletedAt)
}

func TestUnmarkAfterCompletionKeepsCertificate(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)
	enroll(t, db, 1, course.ID)

	for _, l := range lessons {
		_, err := ToggleLessonCompletion(db, 1, course.ID, l.ID, true)
		require.NoError(t, err)
	}

	update, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, 50, update.Progress)
	assert.False(t, update.Completed)

	// The certificate is never retracted once issued
	var certs int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", 1, course.ID).Count(&certs)
	assert.Equal(t, int64(1), certs)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestRecomputeProgressFloorsPercentage(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 3)
	enroll(t, db, 1, course.ID)

	for _, l := range lessons[:2] {
		_, err := ToggleLessonCompletion(db, 1, course.ID, l.ID, true)
		require.NoError(t, err)
	}

	update, err := RecomputeEnrollmentProgress(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 66, update.Progress)
}

func TestRecomputeProgressZeroLessonCourse(t *testing.T) {
	db := setupTestDB(t)
	course, _ := seedCourseWithLessons(t, db, 0)
	enroll(t, db, 1, course.ID)

	update, err := RecomputeEnrollmentProgress(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, update.Progress)
	assert.False(t, update.Completed)
}

func TestRecomputeProgressIgnoresDeletedLessons(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 3)
	enroll(t, db, 1, course.ID)

	_, err := ToggleLessonCompletion(db, 1, course.ID, lessons[0].ID, true)
	require.NoError(t, err)
	_, err = ToggleLessonCompletion(db, 1, course.ID, lessons[1].ID, true)
	require.NoError(t, err)

	// Removing the uncompleted lesson leaves 2 of 2 done
	require.NoError(t, db.Model(&lessons[2]).Update("is_deleted", true).Error)

	update, err := RecomputeEnrollmentProgress(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, update.Progress)
	assert.True(t, update.Completed)
}

func TestRecomputeProgressIgnoresDenormalizedCounter(t *testing.T) {
	db := setupTestDB(t)
	course, lessons := seedCourseWithLessons(t, db, 2)
	enroll(t, db, 1, course.ID)

	// Stale counter must not affect the computation
	require.NoError(t, db.Model(&course).Update("lessons", 50).Error)

	for _, l := range lessons {
		_, err := ToggleLessonCompletion(db, 1, course.ID, l.ID, true)
		require.NoError(t, err)
	}

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
}
