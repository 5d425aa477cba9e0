package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lms_backend/internal/model"
)

func TestAggregate(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	submitted := started.Add(12*time.Minute + 30*time.Second)

	sub := &model.AssessmentSubmission{
		StartedAt:   started,
		SubmittedAt: &submitted,
		Answers: []model.Answer{
			{QuestionID: "a", PointsAwarded: 5},
			{QuestionID: "b", PointsAwarded: 0},
			{QuestionID: "c", PointsAwarded: 3},
		},
	}

	Aggregate(sub, 10, 60)

	assert.Equal(t, 8, sub.Score)
	assert.Equal(t, 80, sub.Percentage)
	assert.True(t, sub.Passed)
	assert.Equal(t, 13, sub.TimeSpent)
}

func TestAggregateWithoutSubmittedAt(t *testing.T) {
	sub := &model.AssessmentSubmission{TimeSpent: 7, Answers: []model.Answer{{PointsAwarded: 1}}}

	Aggregate(sub, 4, 30)

	assert.Equal(t, 25, sub.Percentage)
	assert.False(t, sub.Passed)
	assert.Equal(t, 7, sub.TimeSpent)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name         string
		score, total int
		want         int
	}{
		{name: "zero total", score: 5, total: 0, want: 0},
		{name: "exact", score: 8, total: 10, want: 80},
		{name: "rounds half up", score: 1, total: 8, want: 13},
		{name: "rounds down", score: 1, total: 3, want: 33},
		{name: "rounds up", score: 2, total: 3, want: 67},
		{name: "full marks", score: 7, total: 7, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.score, tt.total))
		})
	}
}

func TestPassedBoundary(t *testing.T) {
	sub := &model.AssessmentSubmission{Answers: []model.Answer{{PointsAwarded: 6}}}
	Aggregate(sub, 10, 60)
	assert.True(t, sub.Passed)

	Aggregate(sub, 10, 61)
	assert.False(t, sub.Passed)

	Aggregate(sub, 10, 0)
	assert.True(t, sub.Passed)
}

func TestTimeSpentMinutes(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, TimeSpentMinutes(start, start.Add(29*time.Second)))
	assert.Equal(t, 1, TimeSpentMinutes(start, start.Add(30*time.Second)))
	assert.Equal(t, 45, TimeSpentMinutes(start, start.Add(45*time.Minute)))
}
