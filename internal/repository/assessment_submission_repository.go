package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentSubmissionRepository struct {
	DB *gorm.DB
}

func NewAssessmentSubmissionRepository(db *gorm.DB) *AssessmentSubmissionRepository {
	return &AssessmentSubmissionRepository{DB: db}
}

func (r *AssessmentSubmissionRepository) WithTx(tx *gorm.DB) *AssessmentSubmissionRepository {
	return &AssessmentSubmissionRepository{DB: tx}
}

func (r *AssessmentSubmissionRepository) WithContext(ctx context.Context) *AssessmentSubmissionRepository {
	return &AssessmentSubmissionRepository{DB: r.DB.WithContext(ctx)}
}

func (r *AssessmentSubmissionRepository) Create(sub *model.AssessmentSubmission) error {
	return r.DB.Create(sub).Error
}

func (r *AssessmentSubmissionRepository) Save(sub *model.AssessmentSubmission) error {
	return r.DB.Omit("Assessment", "Student", "Grader").Save(sub).Error
}

func (r *AssessmentSubmissionRepository) FindByID(id uint) (*model.AssessmentSubmission, error) {
	var sub model.AssessmentSubmission
	err := r.DB.First(&sub, id).Error
	return &sub, err
}

func (r *AssessmentSubmissionRepository) CountAttempts(studentID, assessmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssessmentSubmission{}).
		Where("student_id = ? AND assessment_id = ?", studentID, assessmentID).
		Count(&count).Error
	return count, err
}

func (r *AssessmentSubmissionRepository) ListByStudent(studentID, assessmentID uint) ([]model.AssessmentSubmission, error) {
	var subs []model.AssessmentSubmission
	err := r.DB.
		Where("student_id = ? AND assessment_id = ?", studentID, assessmentID).
		Order("attempt_number asc").
		Find(&subs).Error
	return subs, err
}

func (r *AssessmentSubmissionRepository) ListByAssessment(assessmentID uint) ([]model.AssessmentSubmission, error) {
	var subs []model.AssessmentSubmission
	err := r.DB.Preload("Student").
		Where("assessment_id = ?", assessmentID).
		Order("submitted_at desc").
		Find(&subs).Error
	return subs, err
}

func (r *AssessmentSubmissionRepository) ListGraded(assessmentID uint) ([]model.AssessmentSubmission, error) {
	var subs []model.AssessmentSubmission
	err := r.DB.
		Where("assessment_id = ? AND status = ?", assessmentID, model.SubmissionGraded).
		Find(&subs).Error
	return subs, err
}

// ListGradedInCourse returns graded submissions of a course; studentID 0 means every student.
func (r *AssessmentSubmissionRepository) ListGradedInCourse(courseID, studentID uint) ([]model.AssessmentSubmission, error) {
	var subs []model.AssessmentSubmission
	query := r.DB.Preload("Assessment").
		Joins("JOIN assessments ON assessments.id = assessment_submissions.assessment_id AND assessments.deleted_at IS NULL").
		Where("assessments.course_id = ? AND assessment_submissions.status = ?", courseID, model.SubmissionGraded)
	if studentID != 0 {
		query = query.Where("assessment_submissions.student_id = ?", studentID)
	}
	err := query.Order("assessment_submissions.assessment_id asc, assessment_submissions.attempt_number asc").Find(&subs).Error
	return subs, err
}

// SubmittedStudentIDs lists students with at least one submission for the assessment.
func (r *AssessmentSubmissionRepository) SubmittedStudentIDs(assessmentID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.AssessmentSubmission{}).
		Where("assessment_id = ?", assessmentID).
		Distinct().
		Pluck("student_id", &ids).Error
	return ids, err
}
