package service

import (
	"errors"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// notFound folds gorm's miss into the service taxonomy and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s not found", util.ErrNotFound, what)
	}
	return err
}

func canManage(actor util.Actor, ownerID uint) bool {
	return actor.IsAdmin() || (actor.Role == model.Teacher && actor.ID == ownerID)
}

func loadCourse(repo *repository.CourseRepository, id uint) (*model.Course, error) {
	course, err := repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "course")
	}
	return course, nil
}

// requireCourseAccess lets the owning teacher, admins and actively enrolled students through.
func requireCourseAccess(enrollments *repository.EnrollmentRepository, actor util.Actor, course *model.Course) error {
	if canManage(actor, course.TeacherID) {
		return nil
	}
	if actor.Role != model.Student {
		return util.ErrForbidden
	}
	active, err := enrollments.IsActive(course.ID, actor.ID)
	if err != nil {
		return err
	}
	if !active {
		return util.ErrNotEnrolled
	}
	return nil
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrValidation, fmt.Sprintf(format, args...))
}
