package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in-progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
	SubmissionLate       SubmissionStatus = "late"
)

type AnswerKind string

const (
	AnswerNone   AnswerKind = ""
	AnswerText   AnswerKind = "text"
	AnswerNumber AnswerKind = "number"
	AnswerList   AnswerKind = "list"
)

var ErrUnsupportedAnswer = errors.New("answer must be a string, a number or a list")

// AnswerValue is the raw value a student submitted. Exactly one of Text, Number
// or List is meaningful, selected by Kind. On the wire it is the bare JSON value.
type AnswerValue struct {
	Kind   AnswerKind
	Text   string
	Number float64
	List   []string
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: s}
}

func NumberAnswer(n float64) AnswerValue {
	return AnswerValue{Kind: AnswerNumber, Number: n}
}

func ListAnswer(items ...string) AnswerValue {
	return AnswerValue{Kind: AnswerList, List: items}
}

func (v AnswerValue) IsEmpty() bool {
	return v.Kind == AnswerNone
}

// String renders the scalar forms; lists are joined with ", ".
func (v AnswerValue) String() string {
	switch v.Kind {
	case AnswerText:
		return v.Text
	case AnswerNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case AnswerList:
		return strings.Join(v.List, ", ")
	}
	return ""
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerText:
		return json.Marshal(v.Text)
	case AnswerNumber:
		return json.Marshal(v.Number)
	case AnswerList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return []byte("null"), nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = AnswerValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextAnswer(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			var item AnswerValue
			if err := item.UnmarshalJSON(r); err != nil {
				return err
			}
			if item.Kind == AnswerList {
				return ErrUnsupportedAnswer
			}
			items = append(items, item.String())
		}
		*v = ListAnswer(items...)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return ErrUnsupportedAnswer
		}
		*v = NumberAnswer(n)
	}
	return nil
}

type Answer struct {
	QuestionID    string      `json:"questionId"`
	Answer        AnswerValue `json:"answer" swaggertype:"string"`
	IsCorrect     *bool       `json:"isCorrect,omitempty"`
	PointsAwarded int         `json:"pointsAwarded"`
	Feedback      string      `json:"feedback,omitempty"`
}

// swagger:model AssessmentSubmission
type AssessmentSubmission struct {
	BaseModel
	AssessmentID    uint                        `gorm:"not null;uniqueIndex:idx_submission_attempt,priority:2;index" json:"assessmentId"`
	Assessment      *Assessment                 `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
	StudentID       uint                        `gorm:"not null;uniqueIndex:idx_submission_attempt,priority:1" json:"studentId"`
	Student         *User                       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Answers         datatypes.JSONSlice[Answer] `gorm:"type:json" json:"answers"`
	Score           int                         `gorm:"not null;default:0" json:"score"`
	Percentage      int                         `gorm:"not null;default:0" json:"percentage"`
	Passed          bool                        `json:"passed"`
	AttemptNumber   int                         `gorm:"not null;uniqueIndex:idx_submission_attempt,priority:3" json:"attemptNumber"`
	StartedAt       time.Time                   `json:"startedAt"`
	SubmittedAt     *time.Time                  `json:"submittedAt,omitempty"`
	TimeSpent       int                         `json:"timeSpent"` // minutes
	Status          SubmissionStatus            `gorm:"size:20;not null;index" json:"status"`
	GradedBy        *uint                       `json:"gradedBy,omitempty"`
	Grader          *User                       `gorm:"foreignKey:GradedBy" json:"grader,omitempty"`
	GradedAt        *time.Time                  `json:"gradedAt,omitempty"`
	TeacherComments string                      `gorm:"type:text" json:"teacherComments"`
}

func (AssessmentSubmission) TableName() string {
	return "assessment_submissions"
}
