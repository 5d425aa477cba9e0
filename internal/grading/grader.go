// Package grading holds the pure parts of assessment scoring: per-answer
// auto-grading, score aggregation, submission status transitions and
// analytics. Nothing in here touches the database.
package grading

import (
	"strings"

	"lms_backend/internal/model"
)

// GradeAnswer grades one submitted answer against its question. A nil question
// means the answer referenced an id the assessment does not have; such answers
// are returned untouched.
func GradeAnswer(ans model.Answer, q *model.Question) model.Answer {
	if q == nil {
		return ans
	}

	switch q.Type {
	case model.QuestionMultipleChoice, model.QuestionTrueFalse:
		correct := false
		if opt := correctOption(q.Options); opt != nil && ans.Answer.Kind == model.AnswerText {
			correct = ans.Answer.Text == opt.Text
		}
		setVerdict(&ans, correct, q.Points)

	case model.QuestionShortAnswer:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			// left for the teacher
			ans.PointsAwarded = 0
			return ans
		}
		setVerdict(&ans, matchesShortAnswer(ans.Answer, q.CorrectAnswer), q.Points)

	case model.QuestionEssay:
		ans.PointsAwarded = 0
	}

	return ans
}

// GradeAnswers grades answers in submission order.
func GradeAnswers(answers []model.Answer, questions []model.Question) []model.Answer {
	index := make(map[string]*model.Question, len(questions))
	for i := range questions {
		index[questions[i].ID] = &questions[i]
	}

	graded := make([]model.Answer, len(answers))
	for i, ans := range answers {
		graded[i] = GradeAnswer(ans, index[ans.QuestionID])
	}
	return graded
}

func correctOption(options []model.Option) *model.Option {
	for i := range options {
		if options[i].IsCorrect {
			return &options[i]
		}
	}
	return nil
}

func matchesShortAnswer(v model.AnswerValue, expected string) bool {
	if v.Kind != model.AnswerText && v.Kind != model.AnswerNumber {
		return false
	}
	return normalize(v.String()) == normalize(expected)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func setVerdict(ans *model.Answer, correct bool, points int) {
	ans.IsCorrect = &correct
	if correct {
		ans.PointsAwarded = points
	} else {
		ans.PointsAwarded = 0
	}
}
