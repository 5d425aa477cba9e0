package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionShortAnswer    QuestionType = "short-answer"
	QuestionEssay          QuestionType = "essay"
)

type AssessmentType string

const (
	AssessmentQuiz       AssessmentType = "quiz"
	AssessmentTest       AssessmentType = "test"
	AssessmentExam       AssessmentType = "exam"
	AssessmentAssignment AssessmentType = "assignment"
)

type AssessmentStatus string

const (
	AssessmentDraft     AssessmentStatus = "draft"
	AssessmentPublished AssessmentStatus = "published"
	AssessmentArchived  AssessmentStatus = "archived"
)

const (
	DefaultQuestionPoints  = 1
	DefaultAttemptsAllowed = 1
	DefaultPassingScore    = 60
)

type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect,omitempty"`
}

// Question is embedded in its assessment; ID is unique within that assessment only.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []Option     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Points        int          `json:"points"`
	Explanation   string       `json:"explanation,omitempty"`
}

// swagger:model Assessment
type Assessment struct {
	BaseModel
	Title                      string                        `gorm:"size:255;not null" json:"title"`
	Description                string                        `gorm:"type:text" json:"description"`
	CourseID                   uint                          `gorm:"index;not null" json:"courseId"`
	Course                     *Course                       `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	TeacherID                  uint                          `gorm:"index;not null" json:"teacherId"`
	Teacher                    *User                         `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Type                       AssessmentType                `gorm:"size:20;not null" json:"type"`
	Questions                  datatypes.JSONSlice[Question] `gorm:"type:json" json:"questions"`
	TotalPoints                int                           `gorm:"not null;default:0" json:"totalPoints"`
	Duration                   int                           `json:"duration"` // minutes
	DueDate                    *time.Time                    `json:"dueDate,omitempty"`
	StartDate                  *time.Time                    `json:"startDate,omitempty"`
	AllowLateSubmission        bool                          `json:"allowLateSubmission"`
	ShuffleQuestions           bool                          `json:"shuffleQuestions"`
	ShowAnswersAfterSubmission bool                          `json:"showAnswersAfterSubmission"`
	AttemptsAllowed            int                           `gorm:"not null" json:"attemptsAllowed"`
	PassingScore               int                           `gorm:"not null" json:"passingScore"`
	Status                     AssessmentStatus              `gorm:"size:20;not null;index" json:"status"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// BeforeSave keeps TotalPoints in line with the question list on every create and update.
func (a *Assessment) BeforeSave(tx *gorm.DB) error {
	a.Normalize()
	return nil
}

// Normalize fills question ids and defaults, then recomputes TotalPoints.
func (a *Assessment) Normalize() {
	for i := range a.Questions {
		if a.Questions[i].ID == "" {
			a.Questions[i].ID = GenerateUUID()
		}
		if a.Questions[i].Points == 0 {
			a.Questions[i].Points = DefaultQuestionPoints
		}
	}
	if a.AttemptsAllowed <= 0 {
		a.AttemptsAllowed = DefaultAttemptsAllowed
	}
	if a.Type == "" {
		a.Type = AssessmentQuiz
	}
	if a.Status == "" {
		a.Status = AssessmentDraft
	}
	a.TotalPoints = a.SumPoints()
}

func (a *Assessment) SumPoints() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}

func (a *Assessment) HasEssay() bool {
	for _, q := range a.Questions {
		if q.Type == QuestionEssay {
			return true
		}
	}
	return false
}

func (a *Assessment) QuestionByID(id string) *Question {
	for i := range a.Questions {
		if a.Questions[i].ID == id {
			return &a.Questions[i]
		}
	}
	return nil
}

func (a *Assessment) IsPublished() bool {
	return a.Status == AssessmentPublished
}

func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer, QuestionEssay:
		return true
	}
	return false
}

func ValidAssessmentType(t AssessmentType) bool {
	switch t {
	case AssessmentQuiz, AssessmentTest, AssessmentExam, AssessmentAssignment:
		return true
	}
	return false
}

func ValidAssessmentStatus(s AssessmentStatus) bool {
	switch s {
	case AssessmentDraft, AssessmentPublished, AssessmentArchived:
		return true
	}
	return false
}
