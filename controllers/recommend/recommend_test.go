package recommendController

import (
	"testing"

	courseModels "ruralearn/models/course"

	"github.com/stretchr/testify/assert"
)

func sampleCatalog() []courseModels.Course {
	return []courseModels.Course{
		{Title: "Organic Farming Basics", Category: "Agriculture", Level: courseModels.LevelBeginner},
		{Title: "Digital Payments and Banking", Category: "Business", Level: courseModels.LevelBeginner},
		{Title: "Starting a Small Business", Category: "Business", Level: courseModels.LevelIntermediate},
		{Title: "Mobile Phone Repair", Category: "Technology", Level: courseModels.LevelAdvanced},
		{Title: "Community Health Basics", Category: "Health", Level: courseModels.LevelBeginner},
		{Title: "Advanced Crop Science", Category: "Agriculture", Level: courseModels.LevelAdvanced},
	}
}

func TestFilterCoursesByInterestAndLevel(t *testing.T) {
	result := FilterCourses(sampleCatalog(), "Business", courseModels.LevelBeginner, nil)

	assert.Len(t, result, 1)
	assert.Equal(t, "Digital Payments and Banking", result[0].Title)
}

func TestFilterCoursesInterestIsCaseInsensitive(t *testing.T) {
	result := FilterCourses(sampleCatalog(), "agriculture", "", nil)

	assert.Len(t, result, 2)
	for _, course := range result {
		assert.Equal(t, "Agriculture", course.Category)
	}
}

func TestFilterCoursesFallsBackWhenNothingMatches(t *testing.T) {
	result := FilterCourses(sampleCatalog(), "Astronomy", "", nil)

	// First three catalog courses are returned so the learner is never empty-handed
	assert.Len(t, result, 3)
	assert.Equal(t, "Organic Farming Basics", result[0].Title)
}

func TestFilterCoursesRanksByProfile(t *testing.T) {
	prefs := &UserPreferences{
		Categories:          []string{"Technology"},
		PreferredLevel:      courseModels.LevelAdvanced,
		CompletedCategories: []string{"Agriculture"},
	}

	result := FilterCourses(sampleCatalog(), "", "", prefs)

	// Technology+Advanced scores 5, Agriculture+Advanced scores 3
	assert.Equal(t, "Mobile Phone Repair", result[0].Title)
	assert.Equal(t, "Advanced Crop Science", result[1].Title)
}

func TestFilterCoursesCapsResults(t *testing.T) {
	result := FilterCourses(sampleCatalog(), "", "", nil)

	assert.Len(t, result, maxRecommendations)
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("Agriculture", "Beginner", true)
	assert.Contains(t, msg, "in Agriculture")
	assert.Contains(t, msg, "Beginner level")
	assert.Contains(t, msg, "your learning profile")

	plain := BuildMessage("", "", false)
	assert.NotContains(t, plain, " in ")
	assert.Contains(t, plain, "I recommend these courses")
}

func TestExtractRecommendedCoursesByTitleMention(t *testing.T) {
	catalog := sampleCatalog()
	reply := "You should start with Organic Farming Basics and later try Starting a Small Business."

	result := ExtractRecommendedCourses(reply, "what should I learn?", catalog)

	assert.Len(t, result, 2)
	assert.Equal(t, "Organic Farming Basics", result[0].Title)
	assert.Equal(t, "Starting a Small Business", result[1].Title)
}

func TestExtractRecommendedCoursesKeywordFallback(t *testing.T) {
	catalog := sampleCatalog()

	result := ExtractRecommendedCourses("Here are some ideas for you.", "I want a beginner course about business", catalog)

	assert.Len(t, result, 1)
	assert.Equal(t, "Digital Payments and Banking", result[0].Title)
}

func TestExtractRecommendedCoursesNoSignal(t *testing.T) {
	result := ExtractRecommendedCourses("Happy to help!", "thanks a lot", sampleCatalog())

	assert.Nil(t, result)
}
