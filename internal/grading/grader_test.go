package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/model"
)

func mcQuestion(id string, points int) model.Question {
	return model.Question{
		ID:     id,
		Type:   model.QuestionMultipleChoice,
		Points: points,
		Options: []model.Option{
			{Text: "Berlin"},
			{Text: "Paris", IsCorrect: true},
			{Text: "Rome"},
		},
	}
}

func TestGradeAnswer(t *testing.T) {
	tf := model.Question{
		ID: "tf", Type: model.QuestionTrueFalse, Points: 2,
		Options: []model.Option{{Text: "True", IsCorrect: true}, {Text: "False"}},
	}
	short := model.Question{ID: "sa", Type: model.QuestionShortAnswer, Points: 3, CorrectAnswer: " Photosynthesis "}
	numeric := model.Question{ID: "num", Type: model.QuestionShortAnswer, Points: 2, CorrectAnswer: "42"}
	noKey := model.Question{ID: "nokey", Type: model.QuestionShortAnswer, Points: 4}
	essay := model.Question{ID: "es", Type: model.QuestionEssay, Points: 10}
	noCorrect := model.Question{ID: "nc", Type: model.QuestionMultipleChoice, Points: 1, Options: []model.Option{{Text: "a"}}}
	mc := mcQuestion("mc", 5)

	tests := []struct {
		name        string
		question    *model.Question
		answer      model.AnswerValue
		wantPoints  int
		wantCorrect *bool
	}{
		{name: "multiple choice correct", question: &mc, answer: model.TextAnswer("Paris"), wantPoints: 5, wantCorrect: boolPtr(true)},
		{name: "multiple choice wrong", question: &mc, answer: model.TextAnswer("Rome"), wantPoints: 0, wantCorrect: boolPtr(false)},
		{name: "multiple choice is case sensitive", question: &mc, answer: model.TextAnswer("paris"), wantPoints: 0, wantCorrect: boolPtr(false)},
		{name: "multiple choice list answer", question: &mc, answer: model.ListAnswer("Paris"), wantPoints: 0, wantCorrect: boolPtr(false)},
		{name: "multiple choice without correct option", question: &noCorrect, answer: model.TextAnswer("a"), wantPoints: 0, wantCorrect: boolPtr(false)},
		{name: "true false correct", question: &tf, answer: model.TextAnswer("True"), wantPoints: 2, wantCorrect: boolPtr(true)},
		{name: "short answer ignores case and whitespace", question: &short, answer: model.TextAnswer("  photosynthesis\n"), wantPoints: 3, wantCorrect: boolPtr(true)},
		{name: "short answer wrong", question: &short, answer: model.TextAnswer("respiration"), wantPoints: 0, wantCorrect: boolPtr(false)},
		{name: "short answer numeric", question: &numeric, answer: model.NumberAnswer(42), wantPoints: 2, wantCorrect: boolPtr(true)},
		{name: "short answer list never matches", question: &numeric, answer: model.ListAnswer("42"), wantPoints: 0, wantCorrect: boolPtr(false)},
		{name: "short answer without key left ungraded", question: &noKey, answer: model.TextAnswer("anything"), wantPoints: 0},
		{name: "essay always zero", question: &essay, answer: model.TextAnswer("a long essay"), wantPoints: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradeAnswer(model.Answer{QuestionID: tt.question.ID, Answer: tt.answer}, tt.question)

			assert.Equal(t, tt.wantPoints, got.PointsAwarded)
			if tt.wantCorrect == nil {
				assert.Nil(t, got.IsCorrect)
				return
			}
			require.NotNil(t, got.IsCorrect)
			assert.Equal(t, *tt.wantCorrect, *got.IsCorrect)
		})
	}
}

func TestGradeAnswerUnknownQuestion(t *testing.T) {
	in := model.Answer{QuestionID: "ghost", Answer: model.TextAnswer("x")}
	assert.Equal(t, in, GradeAnswer(in, nil))
}

func TestGradeAnswersKeepsOrder(t *testing.T) {
	questions := []model.Question{mcQuestion("q1", 5), mcQuestion("q2", 3)}
	answers := []model.Answer{
		{QuestionID: "q2", Answer: model.TextAnswer("Paris")},
		{QuestionID: "q1", Answer: model.TextAnswer("Rome")},
		{QuestionID: "q9", Answer: model.TextAnswer("Paris")},
	}

	got := GradeAnswers(answers, questions)

	require.Len(t, got, 3)
	assert.Equal(t, "q2", got[0].QuestionID)
	assert.Equal(t, 3, got[0].PointsAwarded)
	assert.Equal(t, 0, got[1].PointsAwarded)
	assert.Nil(t, got[2].IsCorrect)
	// input is not mutated
	assert.Nil(t, answers[0].IsCorrect)
}

func boolPtr(b bool) *bool { return &b }
