package repository

import (
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

// Upsert activates the (course, student) enrollment, reviving a dropped one.
func (r *EnrollmentRepository) Upsert(courseID, studentID uint, at time.Time) (*model.Enrollment, error) {
	e := &model.Enrollment{CourseID: courseID, StudentID: studentID, Status: model.EnrollmentActive, EnrolledAt: at}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"status": model.EnrollmentActive, "enrolled_at": at, "updated_at": at}),
	}).Create(e).Error
	if err != nil {
		return nil, err
	}
	return r.Find(courseID, studentID)
}

func (r *EnrollmentRepository) Find(courseID, studentID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("course_id = ? AND student_id = ?", courseID, studentID).First(&e).Error
	return &e, err
}

// IsActive locks the enrollment row for the rest of the surrounding transaction.
func (r *EnrollmentRepository) IsActive(courseID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ? AND student_id = ? AND status = ?", courseID, studentID, model.EnrollmentActive).
		Count(&count).Error
	return count > 0, err
}

// SetStatus reports how many rows changed; an enrollment already in status counts as none.
func (r *EnrollmentRepository) SetStatus(courseID, studentID uint, status model.EnrollmentStatus) (int64, error) {
	res := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND student_id = ? AND status <> ?", courseID, studentID, status).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *EnrollmentRepository) ListByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Student").Where("course_id = ?", courseID).Order("enrolled_at asc").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListActiveStudents(courseID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Joins("JOIN enrollments ON enrollments.student_id = users.id AND enrollments.deleted_at IS NULL").
		Where("enrollments.course_id = ? AND enrollments.status = ?", courseID, model.EnrollmentActive).
		Order("users.id asc").
		Find(&users).Error
	return users, err
}
