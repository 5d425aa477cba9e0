package model

import "time"

type AssignmentSubmissionStatus string

const (
	AssignmentSubmitted AssignmentSubmissionStatus = "submitted"
	AssignmentLate      AssignmentSubmissionStatus = "late"
	AssignmentGraded    AssignmentSubmissionStatus = "graded"
)

// swagger:model Assignment
type Assignment struct {
	BaseModel
	CourseID            uint       `gorm:"index;not null" json:"courseId"`
	Course              *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	TeacherID           uint       `gorm:"index;not null" json:"teacherId"`
	Title               string     `gorm:"size:255;not null" json:"title"`
	Description         string     `gorm:"type:text" json:"description"`
	DueDate             *time.Time `json:"dueDate,omitempty"`
	MaxPoints           int        `gorm:"not null;default:100" json:"maxPoints"`
	AllowLateSubmission bool       `json:"allowLateSubmission"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// swagger:model AssignmentSubmission
type AssignmentSubmission struct {
	BaseModel
	AssignmentID uint                       `gorm:"not null;uniqueIndex:idx_assignment_student" json:"assignmentId"`
	Assignment   *Assignment                `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	StudentID    uint                       `gorm:"not null;uniqueIndex:idx_assignment_student;index" json:"studentId"`
	Student      *User                      `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Content      string                     `gorm:"type:text" json:"content"`
	FileURL      string                     `gorm:"size:512" json:"fileUrl,omitempty"`
	FileName     string                     `gorm:"size:255" json:"fileName,omitempty"`
	Status       AssignmentSubmissionStatus `gorm:"size:20;not null" json:"status"`
	IsLate       bool                       `json:"isLate"`
	SubmittedAt  time.Time                  `json:"submittedAt"`
	Grade        *int                       `json:"grade,omitempty"`
	Feedback     string                     `gorm:"type:text" json:"feedback"`
	GradedBy     *uint                      `json:"gradedBy,omitempty"`
	GradedAt     *time.Time                 `json:"gradedAt,omitempty"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
