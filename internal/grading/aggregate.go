package grading

import (
	"math"
	"time"

	"lms_backend/internal/model"
)

// Aggregate recomputes score, percentage and pass status from the answers
// already on the submission. TimeSpent is only refreshed when SubmittedAt is set.
func Aggregate(sub *model.AssessmentSubmission, totalPoints, passingScore int) {
	score := 0
	for _, a := range sub.Answers {
		score += a.PointsAwarded
	}

	sub.Score = score
	sub.Percentage = Percentage(score, totalPoints)
	sub.Passed = sub.Percentage >= passingScore

	if sub.SubmittedAt != nil {
		sub.TimeSpent = TimeSpentMinutes(sub.StartedAt, *sub.SubmittedAt)
	}
}

func Percentage(score, totalPoints int) int {
	if totalPoints == 0 {
		return 0
	}
	return roundHalfUp(float64(score) / float64(totalPoints) * 100)
}

func TimeSpentMinutes(startedAt, submittedAt time.Time) int {
	ms := submittedAt.Sub(startedAt).Milliseconds()
	return roundHalfUp(float64(ms) / 60000)
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
