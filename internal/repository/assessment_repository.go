package repository

import (
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.First(&a, id).Error
	return &a, err
}

// Update persists every column; TotalPoints is recomputed by the model hook.
func (r *AssessmentRepository) Update(a *model.Assessment) error {
	return r.DB.Save(a).Error
}

// Delete removes the assessment and all of its submissions atomically.
func (r *AssessmentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", id).Delete(&model.AssessmentSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assessment{}, id).Error
	})
}

func (r *AssessmentRepository) ListByCourse(courseID uint, publishedOnly bool) ([]model.Assessment, error) {
	var as []model.Assessment
	query := r.DB.Where("course_id = ?", courseID)
	if publishedOnly {
		query = query.Where("status = ?", model.AssessmentPublished)
	}
	err := query.Order("created_at desc").Find(&as).Error
	return as, err
}

// ListPublishedDueBetween feeds the deadline reminder job.
func (r *AssessmentRepository) ListPublishedDueBetween(from, to time.Time) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.
		Where("status = ? AND due_date IS NOT NULL AND due_date > ? AND due_date <= ?", model.AssessmentPublished, from, to).
		Order("due_date asc").
		Find(&as).Error
	return as, err
}
