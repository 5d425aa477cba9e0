package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByCode(code string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("code = ?", code).First(&course).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete removes the course with its enrollments, assessments, submissions, assignments and live classes.
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		assessmentIDs := tx.Model(&model.Assessment{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("assessment_id IN (?)", assessmentIDs).Delete(&model.AssessmentSubmission{}).Error; err != nil {
			return err
		}
		assignmentIDs := tx.Model(&model.Assignment{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&model.AssignmentSubmission{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{&model.Assessment{}, &model.Assignment{}, &model.LiveClass{}, &model.Enrollment{}} {
			if err := tx.Where("course_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) ListByTeacher(teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&courses).Error
	return courses, err
}

// ListByStudent returns courses the student is actively enrolled in.
func (r *CourseRepository) ListByStudent(studentID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL").
		Where("enrollments.student_id = ? AND enrollments.status = ?", studentID, model.EnrollmentActive).
		Order("courses.created_at desc").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("is_published = ?", true).Order("created_at desc").Find(&courses).Error
	return courses, err
}
