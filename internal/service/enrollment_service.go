package service

import (
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"time"
)

type EnrollmentService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewEnrollmentService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{CourseRepo: courseRepo, EnrollmentRepo: enrollmentRepo}
}

// Enroll self-enrolls a student into a published course. Enrolling again
// reactivates a dropped enrollment.
func (s *EnrollmentService) Enroll(actor util.Actor, courseID uint) (*model.Enrollment, error) {
	if !actor.IsStudent() {
		return nil, validationError("only students can enroll")
	}
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, fmt.Errorf("%w: course not found", util.ErrNotFound)
	}
	return s.EnrollmentRepo.Upsert(course.ID, actor.ID, time.Now())
}

func (s *EnrollmentService) Drop(actor util.Actor, courseID uint) error {
	affected, err := s.EnrollmentRepo.SetStatus(courseID, actor.ID, model.EnrollmentDropped)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrNotEnrolled
	}
	return nil
}

func (s *EnrollmentService) ListStudents(actor util.Actor, courseID uint) ([]model.Enrollment, error) {
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, course.TeacherID) {
		return nil, util.ErrForbidden
	}
	return s.EnrollmentRepo.ListByCourse(courseID)
}
