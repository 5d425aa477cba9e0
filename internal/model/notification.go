package model

import "time"

type NotificationKind string

const (
	NotifyAssessmentCreated NotificationKind = "assessment_created"
	NotifyAssessmentGraded  NotificationKind = "assessment_graded"
	NotifyAssignmentGraded  NotificationKind = "assignment_graded"
	NotifyDeadlineReminder  NotificationKind = "deadline_reminder"
)

type NotificationOutcome string

const (
	NotificationSent   NotificationOutcome = "sent"
	NotificationFailed NotificationOutcome = "failed"
)

// NotificationRecord is one delivery attempt. Records live in a capped Redis list, not in SQL.
type NotificationRecord struct {
	Kind      NotificationKind    `json:"kind"`
	Recipient string              `json:"recipient"`
	Subject   string              `json:"subject"`
	Outcome   NotificationOutcome `json:"outcome"`
	Error     string              `json:"error,omitempty"`
	At        time.Time           `json:"at"`
}
