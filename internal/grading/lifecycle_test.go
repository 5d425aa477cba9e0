package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/model"
)

func TestSubmitWithoutEssayIsGraded(t *testing.T) {
	a := &model.Assessment{Questions: []model.Question{mcQuestion("q1", 5), mcQuestion("q2", 5)}, PassingScore: 60}
	a.Normalize()

	now := time.Date(2026, 3, 1, 10, 20, 0, 0, time.UTC)
	sub := &model.AssessmentSubmission{
		StartedAt: now.Add(-20 * time.Minute),
		Answers: []model.Answer{
			{QuestionID: "q1", Answer: model.TextAnswer("Paris")},
			{QuestionID: "q2", Answer: model.TextAnswer("Berlin")},
		},
	}

	Submit(sub, a, now)

	assert.Equal(t, model.SubmissionGraded, sub.Status)
	assert.Equal(t, 5, sub.Score)
	assert.Equal(t, 50, sub.Percentage)
	assert.False(t, sub.Passed)
	assert.Equal(t, 20, sub.TimeSpent)
	require.NotNil(t, sub.GradedAt)
	assert.Equal(t, now, *sub.GradedAt)
	assert.Nil(t, sub.GradedBy)
	assert.False(t, PendingManualGrading(sub))
}

func TestSubmitWithEssayWaitsForTeacher(t *testing.T) {
	a := &model.Assessment{
		Questions: []model.Question{
			mcQuestion("q1", 5),
			{ID: "e1", Type: model.QuestionEssay, Points: 5},
		},
		PassingScore: 60,
	}
	a.Normalize()

	now := time.Now()
	sub := &model.AssessmentSubmission{
		StartedAt: now,
		Answers: []model.Answer{
			{QuestionID: "q1", Answer: model.TextAnswer("Paris")},
			{QuestionID: "e1", Answer: model.TextAnswer("my essay")},
		},
	}

	Submit(sub, a, now)

	assert.Equal(t, model.SubmissionSubmitted, sub.Status)
	assert.Equal(t, 5, sub.Score)
	assert.Equal(t, 50, sub.Percentage)
	assert.Nil(t, sub.GradedAt)
	assert.True(t, PendingManualGrading(sub))
}

func TestManualGrade(t *testing.T) {
	a := &model.Assessment{
		Questions: []model.Question{
			mcQuestion("q1", 5),
			{ID: "e1", Type: model.QuestionEssay, Points: 5},
		},
		PassingScore: 60,
	}
	a.Normalize()

	now := time.Now()
	submitted := now.Add(-time.Hour)
	sub := &model.AssessmentSubmission{
		Status:      model.SubmissionSubmitted,
		SubmittedAt: &submitted,
		StartedAt:   submitted.Add(-10 * time.Minute),
		Answers: []model.Answer{
			{QuestionID: "q1", PointsAwarded: 5},
			{QuestionID: "e1", PointsAwarded: 0},
		},
	}

	t.Run("keeps answers when none given", func(t *testing.T) {
		comments := "see me"
		ManualGrade(sub, a, 7, nil, &comments, now)

		assert.Equal(t, model.SubmissionGraded, sub.Status)
		assert.Equal(t, 5, sub.Score)
		assert.Equal(t, "see me", sub.TeacherComments)
		require.NotNil(t, sub.GradedBy)
		assert.Equal(t, uint(7), *sub.GradedBy)
		assert.Equal(t, 10, sub.TimeSpent)
	})

	t.Run("regrades with new answers", func(t *testing.T) {
		answers := []model.Answer{
			{QuestionID: "q1", PointsAwarded: 5},
			{QuestionID: "e1", PointsAwarded: 4, Feedback: "good"},
		}
		ManualGrade(sub, a, 8, answers, nil, now)

		assert.Equal(t, 9, sub.Score)
		assert.Equal(t, 90, sub.Percentage)
		assert.True(t, sub.Passed)
		assert.Equal(t, "see me", sub.TeacherComments)
		assert.Equal(t, uint(8), *sub.GradedBy)
	})
}
