package service

import (
	"errors"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type CourseRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Code        string `json:"code" binding:"required,max=32"`
	IsPublished bool   `json:"isPublished"`
}

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, EnrollmentRepo: enrollmentRepo}
}

func (s *CourseService) Create(actor util.Actor, req CourseRequest) (*model.Course, error) {
	if !actor.IsTeacher() {
		return nil, util.ErrForbidden
	}
	course := &model.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		TeacherID:   actor.ID,
		IsPublished: req.IsPublished,
	}
	if course.Title == "" || course.Code == "" {
		return nil, validationError("title and code are required")
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, translateDuplicate(err, "course code already in use")
	}
	return course, nil
}

func (s *CourseService) Get(actor util.Actor, id uint) (*model.Course, error) {
	course, err := loadCourse(s.CourseRepo, id)
	if err != nil {
		return nil, err
	}
	// published courses are browsable so students can find something to enroll in
	if course.IsPublished && actor.IsStudent() {
		return course, nil
	}
	if err := requireCourseAccess(s.EnrollmentRepo, actor, course); err != nil {
		return nil, err
	}
	return course, nil
}

// List returns the actor's own courses: taught ones for teachers, enrolled ones for students.
func (s *CourseService) List(actor util.Actor) ([]model.Course, error) {
	if actor.IsStudent() {
		return s.CourseRepo.ListByStudent(actor.ID)
	}
	return s.CourseRepo.ListByTeacher(actor.ID)
}

func (s *CourseService) ListPublished() ([]model.Course, error) {
	return s.CourseRepo.ListPublished()
}

func (s *CourseService) Update(actor util.Actor, id uint, req CourseRequest) (*model.Course, error) {
	course, err := loadCourse(s.CourseRepo, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, course.TeacherID) {
		return nil, util.ErrForbidden
	}

	course.Title = strings.TrimSpace(req.Title)
	course.Description = req.Description
	course.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	course.IsPublished = req.IsPublished
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, translateDuplicate(err, "course code already in use")
	}
	return course, nil
}

func (s *CourseService) Delete(actor util.Actor, id uint) error {
	course, err := loadCourse(s.CourseRepo, id)
	if err != nil {
		return err
	}
	if !canManage(actor, course.TeacherID) {
		return util.ErrForbidden
	}
	return s.CourseRepo.Delete(id)
}

func translateDuplicate(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", util.ErrConflict, msg)
	}
	return err
}
