package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentNormalize(t *testing.T) {
	a := &Assessment{
		TotalPoints: 999,
		Questions: []Question{
			{Type: QuestionMultipleChoice, Points: 5},
			{Type: QuestionEssay},
			{ID: "fixed", Type: QuestionShortAnswer, Points: 3},
		},
	}

	a.Normalize()

	assert.Equal(t, 9, a.TotalPoints)
	assert.Equal(t, DefaultQuestionPoints, a.Questions[1].Points)
	assert.NotEmpty(t, a.Questions[0].ID)
	assert.NotEqual(t, a.Questions[0].ID, a.Questions[1].ID)
	assert.Equal(t, "fixed", a.Questions[2].ID)
	assert.Equal(t, DefaultAttemptsAllowed, a.AttemptsAllowed)
	assert.Equal(t, AssessmentDraft, a.Status)
	assert.Equal(t, AssessmentQuiz, a.Type)
	assert.True(t, a.HasEssay())
	assert.NotNil(t, a.QuestionByID("fixed"))
	assert.Nil(t, a.QuestionByID("missing"))
}

func TestAnswerValueUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AnswerValue
		wantErr bool
	}{
		{name: "text", input: `"Paris"`, want: TextAnswer("Paris")},
		{name: "number", input: `42.5`, want: NumberAnswer(42.5)},
		{name: "list of strings", input: `["a","b"]`, want: ListAnswer("a", "b")},
		{name: "list with numbers", input: `["a",3]`, want: ListAnswer("a", "3")},
		{name: "null", input: `null`, want: AnswerValue{}},
		{name: "boolean rejected", input: `true`, wantErr: true},
		{name: "object rejected", input: `{"x":1}`, wantErr: true},
		{name: "nested list rejected", input: `[["a"]]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AnswerValue
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswerJSONShape(t *testing.T) {
	correct := true
	a := Answer{QuestionID: "q1", Answer: NumberAnswer(7), IsCorrect: &correct, PointsAwarded: 2}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"questionId":"q1","answer":7,"isCorrect":true,"pointsAwarded":2}`, string(data))

	ungraded, err := json.Marshal(Answer{QuestionID: "q2", Answer: TextAnswer("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"questionId":"q2","answer":"x","pointsAwarded":0}`, string(ungraded))
}

func TestAnswerValueString(t *testing.T) {
	assert.Equal(t, "3", NumberAnswer(3).String())
	assert.Equal(t, "0.25", NumberAnswer(0.25).String())
	assert.Equal(t, "a, b", ListAnswer("a", "b").String())
	assert.Equal(t, "", AnswerValue{}.String())
}
