package grading

import (
	"math"

	"lms_backend/internal/model"
)

type GradeDistribution struct {
	A int `json:"90-100"`
	B int `json:"80-89"`
	C int `json:"70-79"`
	D int `json:"60-69"`
	F int `json:"0-59"`
}

type Analytics struct {
	TotalSubmissions  int               `json:"totalSubmissions"`
	AverageScore      float64           `json:"averageScore"` // mean percentage
	HighestScore      int               `json:"highestScore"`
	LowestScore       int               `json:"lowestScore"`
	PassRate          float64           `json:"passRate"`
	GradeDistribution GradeDistribution `json:"gradeDistribution"`
	AverageTimeSpent  float64           `json:"averageTimeSpent"` // minutes
}

// Summarize computes statistics over the given submissions; callers pass graded ones only.
// An empty input yields an all-zero result.
func Summarize(subs []model.AssessmentSubmission) Analytics {
	var out Analytics
	out.TotalSubmissions = len(subs)

	percentSum, timeSum, passed := 0, 0, 0
	for i, s := range subs {
		percentSum += s.Percentage
		timeSum += s.TimeSpent
		if s.Passed {
			passed++
		}

		if i == 0 || s.Percentage > out.HighestScore {
			out.HighestScore = s.Percentage
		}
		if i == 0 || s.Percentage < out.LowestScore {
			out.LowestScore = s.Percentage
		}

		switch {
		case s.Percentage >= 90:
			out.GradeDistribution.A++
		case s.Percentage >= 80:
			out.GradeDistribution.B++
		case s.Percentage >= 70:
			out.GradeDistribution.C++
		case s.Percentage >= 60:
			out.GradeDistribution.D++
		default:
			out.GradeDistribution.F++
		}
	}

	denominator := float64(len(subs))
	if denominator == 0 {
		denominator = 1
	}

	out.AverageScore = round2(float64(percentSum) / denominator)
	out.PassRate = round2(float64(passed) / denominator * 100)
	out.AverageTimeSpent = round2(float64(timeSum) / denominator)
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
