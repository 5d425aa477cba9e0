package grading

import (
	"time"

	"lms_backend/internal/model"
)

// Submit auto-grades a freshly created submission and settles its status.
// Assessments without essay questions are final immediately and carry no grader.
func Submit(sub *model.AssessmentSubmission, a *model.Assessment, now time.Time) {
	submittedAt := now
	sub.SubmittedAt = &submittedAt
	sub.Status = model.SubmissionSubmitted

	sub.Answers = GradeAnswers(sub.Answers, a.Questions)
	Aggregate(sub, a.TotalPoints, a.PassingScore)

	if !a.HasEssay() {
		gradedAt := now
		sub.Status = model.SubmissionGraded
		sub.GradedAt = &gradedAt
		sub.GradedBy = nil
	}
}

// ManualGrade is the teacher's grading pass. A nil answers slice keeps the
// current answers; a nil comments pointer keeps the current comments. The
// submission ends up graded whatever its previous status was.
func ManualGrade(sub *model.AssessmentSubmission, a *model.Assessment, teacherID uint, answers []model.Answer, comments *string, now time.Time) {
	if answers != nil {
		sub.Answers = answers
	}
	if comments != nil {
		sub.TeacherComments = *comments
	}

	Aggregate(sub, a.TotalPoints, a.PassingScore)

	gradedAt := now
	grader := teacherID
	sub.Status = model.SubmissionGraded
	sub.GradedBy = &grader
	sub.GradedAt = &gradedAt
}

// PendingManualGrading reports whether a submission still waits for a teacher.
func PendingManualGrading(sub *model.AssessmentSubmission) bool {
	return sub.Status == model.SubmissionSubmitted
}
