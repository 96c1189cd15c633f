package utils

import (
	"testing"
	"time"

	"ruralearn/database"
	courseModels "ruralearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSchedulerTestDB(t *testing.T) *gorm.DB {
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
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

func seedReconcileFixture(t *testing.T, db *gorm.DB, completedLessons int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()

	course := courseModels.Course{Title: "Organic Farming Basics", IsPublished: true, Lessons: 2}
	require.NoError(t, db.Create(&course).Error)

	lessons := make([]courseModels.Lesson, 2)
	for i := range lessons {
		lessons[i] = courseModels.Lesson{CourseID: course.ID, Title: "Lesson", OrderIndex: i + 1}
		require.NoError(t, db.Create(&lessons[i]).Error)
	}

	for i := 0; i < completedLessons; i++ {
		row := courseModels.LessonProgress{
			UserID:       1,
			LessonID:     lessons[i].ID,
			Completed:    true,
			LastAccessed: time.Now(),
		}
		require.NoError(t, db.Create(&row).Error)
	}

	return course, lessons
}

func TestReconcileSetsCompletedAtOnHealedEnrollment(t *testing.T) {
	db := setupSchedulerTestDB(t)
	course, _ := seedReconcileFixture(t, db, 2)

	// Stale row from an interrupted update: all lessons done, enrollment
	// still at 50% with no completion stamp
	enrollment := courseModels.Enrollment{UserID: 1, CourseID: course.ID, Progress: 50}
	require.NoError(t, db.Create(&enrollment).Error)

	ReconcileEnrollmentProgress()

	var healed courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&healed).Error)
	assert.Equal(t, 100, healed.Progress)
	assert.True(t, healed.Completed)
	require.NotNil(t, healed.CompletedAt)
}

func TestReconcileClearsCompletedAtWhenIncomplete(t *testing.T) {
	db := setupSchedulerTestDB(t)
	course, _ := seedReconcileFixture(t, db, 1)

	completedAt := time.Now()
	enrollment := courseModels.Enrollment{
		UserID:      1,
		CourseID:    course.ID,
		Progress:    100,
		Completed:   true,
		CompletedAt: &completedAt,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	ReconcileEnrollmentProgress()

	var reverted courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&reverted).Error)
	assert.Equal(t, 50, reverted.Progress)
	assert.False(t, reverted.Completed)
	assert.Nil(t, reverted.CompletedAt)
}

func TestReconcileCourseCounters(t *testing.T) {
	db := setupSchedulerTestDB(t)
	course, _ := seedReconcileFixture(t, db, 0)

	// Drift the denormalized counters
	require.NoError(t, db.Model(&course).Updates(map[string]interface{}{"students": 9, "lessons": 9}).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 1, CourseID: course.ID}).Error)

	ReconcileCourseCounters()

	require.NoError(t, db.First(&course, course.ID).Error)
	assert.Equal(t, 1, course.Students)
	assert.Equal(t, 2, course.Lessons)
}
