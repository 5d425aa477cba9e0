package model

import "time"

type LiveClassStatus string

const (
	LiveClassScheduled LiveClassStatus = "scheduled"
	LiveClassEnded     LiveClassStatus = "ended"
	LiveClassCancelled LiveClassStatus = "cancelled"
)

// swagger:model LiveClass
type LiveClass struct {
	BaseModel
	CourseID        uint            `gorm:"index;not null" json:"courseId"`
	TeacherID       uint            `gorm:"index;not null" json:"teacherId"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	ScheduledAt     time.Time       `gorm:"index" json:"scheduledAt"`
	DurationMinutes int             `gorm:"not null;default:60" json:"durationMinutes"`
	RoomName        string          `gorm:"size:64;uniqueIndex;not null" json:"roomName"`
	Status          LiveClassStatus `gorm:"size:20;not null" json:"status"`
}

func (LiveClass) TableName() string {
	return "live_classes"
}
