package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	CourseID   uint             `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"courseId"`
	Course     *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	StudentID  uint             `gorm:"not null;uniqueIndex:idx_enrollment_course_student;index" json:"studentId"`
	Student    *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status     EnrollmentStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	EnrolledAt time.Time        `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
