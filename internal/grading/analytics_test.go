package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lms_backend/internal/model"
)

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Analytics{}, Summarize(nil))
}

func TestSummarize(t *testing.T) {
	subs := []model.AssessmentSubmission{
		{Percentage: 95, Passed: true, TimeSpent: 10},
		{Percentage: 80, Passed: true, TimeSpent: 20},
		{Percentage: 72, Passed: true, TimeSpent: 15},
		{Percentage: 60, Passed: true, TimeSpent: 5},
		{Percentage: 59, Passed: false, TimeSpent: 12},
		{Percentage: 0, Passed: false, TimeSpent: 1},
	}

	got := Summarize(subs)

	assert.Equal(t, 6, got.TotalSubmissions)
	assert.Equal(t, 61.0, got.AverageScore)
	assert.Equal(t, 95, got.HighestScore)
	assert.Equal(t, 0, got.LowestScore)
	assert.Equal(t, 66.67, got.PassRate)
	assert.Equal(t, 10.5, got.AverageTimeSpent)
	assert.Equal(t, GradeDistribution{A: 1, B: 1, C: 1, D: 1, F: 2}, got.GradeDistribution)
}

func TestSummarizeSingle(t *testing.T) {
	got := Summarize([]model.AssessmentSubmission{{Percentage: 42, TimeSpent: 3}})

	assert.Equal(t, 42, got.HighestScore)
	assert.Equal(t, 42, got.LowestScore)
	assert.Equal(t, 0.0, got.PassRate)
	assert.Equal(t, 1, got.GradeDistribution.F)
}
