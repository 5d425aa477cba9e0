package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) Update(a *model.Assignment) error {
	return r.DB.Omit("Course").Save(a).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, id).Error
	})
}

func (r *AssignmentRepository) ListByCourse(courseID uint) ([]model.Assignment, error) {
	var as []model.Assignment
	err := r.DB.Where("course_id = ?", courseID).Order("due_date asc, id asc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) FindSubmission(assignmentID, studentID uint) (*model.AssignmentSubmission, error) {
	var sub model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&sub).Error
	return &sub, err
}

func (r *AssignmentRepository) FindSubmissionByID(id uint) (*model.AssignmentSubmission, error) {
	var sub model.AssignmentSubmission
	err := r.DB.First(&sub, id).Error
	return &sub, err
}

func (r *AssignmentRepository) SaveSubmission(sub *model.AssignmentSubmission) error {
	return r.DB.Omit("Assignment", "Student").Save(sub).Error
}

func (r *AssignmentRepository) ListSubmissions(assignmentID uint) ([]model.AssignmentSubmission, error) {
	var subs []model.AssignmentSubmission
	err := r.DB.Preload("Student").Where("assignment_id = ?", assignmentID).Order("submitted_at desc").Find(&subs).Error
	return subs, err
}

// ListGradedInCourse returns graded assignment submissions of a course; studentID 0 means every student.
func (r *AssignmentRepository) ListGradedInCourse(courseID, studentID uint) ([]model.AssignmentSubmission, error) {
	var subs []model.AssignmentSubmission
	query := r.DB.Preload("Assignment").
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id AND assignments.deleted_at IS NULL").
		Where("assignments.course_id = ? AND assignment_submissions.status = ?", courseID, model.AssignmentGraded)
	if studentID != 0 {
		query = query.Where("assignment_submissions.student_id = ?", studentID)
	}
	err := query.Order("assignment_submissions.assignment_id asc").Find(&subs).Error
	return subs, err
}
