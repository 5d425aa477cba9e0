package service

import (
	"context"
	"errors"
	"io"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignmentRequest struct {
	Title               string     `json:"title" binding:"required,max=255"`
	Description         string     `json:"description"`
	DueDate             *time.Time `json:"dueDate"`
	MaxPoints           int        `json:"maxPoints" binding:"omitempty,gte=1"`
	AllowLateSubmission bool       `json:"allowLateSubmission"`
}

// Attachment is an uploaded file that has not been stored yet.
type Attachment struct {
	Filename string
	Size     int64
	Reader   io.ReadSeeker
}

type AssignmentSubmitRequest struct {
	Content    string
	Attachment *Attachment
}

type AssignmentGradeRequest struct {
	Grade    *int   `json:"grade" binding:"required,gte=0"`
	Feedback string `json:"feedback"`
}

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Storage        *StorageService
	Notifier       *NotificationService
	Now            func() time.Time
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	storage *StorageService,
	notifier *NotificationService,
) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Storage:        storage,
		Notifier:       notifier,
		Now:            time.Now,
	}
}

func (s *AssignmentService) Create(actor util.Actor, courseID uint, req AssignmentRequest) (*model.Assignment, error) {
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, course.TeacherID) {
		return nil, util.ErrForbidden
	}

	a := &model.Assignment{
		CourseID:            course.ID,
		TeacherID:           actor.ID,
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		DueDate:             req.DueDate,
		MaxPoints:           req.MaxPoints,
		AllowLateSubmission: req.AllowLateSubmission,
	}
	if a.MaxPoints == 0 {
		a.MaxPoints = 100
	}
	if err := s.AssignmentRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) loadOwned(actor util.Actor, id uint) (*model.Assignment, error) {
	a, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "assignment")
	}
	if !canManage(actor, a.TeacherID) {
		return nil, util.ErrForbidden
	}
	return a, nil
}

func (s *AssignmentService) Update(actor util.Actor, id uint, req AssignmentRequest) (*model.Assignment, error) {
	a, err := s.loadOwned(actor, id)
	if err != nil {
		return nil, err
	}
	a.Title = strings.TrimSpace(req.Title)
	a.Description = req.Description
	a.DueDate = req.DueDate
	if req.MaxPoints > 0 {
		a.MaxPoints = req.MaxPoints
	}
	a.AllowLateSubmission = req.AllowLateSubmission
	if err := s.AssignmentRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) Delete(actor util.Actor, id uint) error {
	if _, err := s.loadOwned(actor, id); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(id)
}

func (s *AssignmentService) Get(actor util.Actor, id uint) (*model.Assignment, error) {
	a, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "assignment")
	}
	course, err := loadCourse(s.CourseRepo, a.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseAccess(s.EnrollmentRepo, actor, course); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) ListByCourse(actor util.Actor, courseID uint) ([]model.Assignment, error) {
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseAccess(s.EnrollmentRepo, actor, course); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.ListByCourse(courseID)
}

// Submit stores or replaces the student's submission. Past the due date it is
// marked late when allowed and rejected otherwise. Graded work is final.
func (s *AssignmentService) Submit(ctx context.Context, actor util.Actor, assignmentID uint, req AssignmentSubmitRequest) (*model.AssignmentSubmission, error) {
	if !actor.IsStudent() {
		return nil, validationError("only students can submit assignments")
	}
	a, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		return nil, notFound(err, "assignment")
	}
	active, err := s.EnrollmentRepo.IsActive(a.CourseID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}

	now := s.Now()
	late := a.DueDate != nil && now.After(*a.DueDate)
	if late && !a.AllowLateSubmission {
		return nil, validationError("assignment is past its due date")
	}
	if strings.TrimSpace(req.Content) == "" && req.Attachment == nil {
		return nil, validationError("content or a file is required")
	}

	sub, err := s.AssignmentRepo.FindSubmission(a.ID, actor.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = &model.AssignmentSubmission{AssignmentID: a.ID, StudentID: actor.ID}
	case err != nil:
		return nil, err
	case sub.Status == model.AssignmentGraded:
		return nil, validationError("submission has already been graded")
	}

	previousKey := sub.FileURL
	if req.Attachment != nil {
		if err := s.storeAttachment(ctx, a.ID, actor.ID, req.Attachment, sub); err != nil {
			return nil, err
		}
	}

	sub.Content = req.Content
	sub.SubmittedAt = now
	sub.IsLate = late
	sub.Status = model.AssignmentSubmitted
	if late {
		sub.Status = model.AssignmentLate
	}

	if err := s.AssignmentRepo.SaveSubmission(sub); err != nil {
		return nil, err
	}
	if req.Attachment != nil && previousKey != "" && previousKey != sub.FileURL {
		s.removeAttachment(ctx, previousKey)
	}
	return sub, nil
}

func (s *AssignmentService) storeAttachment(ctx context.Context, assignmentID, studentID uint, att *Attachment, sub *model.AssignmentSubmission) error {
	if att.Size > util.MaxAttachmentSize {
		return validationError("file exceeds %d MB", util.MaxAttachmentSize>>20)
	}
	mime, err := util.ValidateMimeType(att.Reader, util.AllowedAttachmentTypes)
	if err != nil {
		return err
	}
	if _, err := att.Reader.Seek(0, io.SeekStart); err != nil {
		return err
	}

	key := AttachmentKey(assignmentID, studentID, att.Filename)
	if _, err := s.Storage.Upload(ctx, key, att.Reader, att.Size, mime); err != nil {
		return err
	}
	sub.FileURL = key
	sub.FileName = att.Filename
	return nil
}

func (s *AssignmentService) removeAttachment(ctx context.Context, key string) {
	if err := s.Storage.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to remove replaced attachment", zap.String("key", key), zap.Error(err))
	}
}

func (s *AssignmentService) ListSubmissions(actor util.Actor, assignmentID uint) ([]model.AssignmentSubmission, error) {
	if _, err := s.loadOwned(actor, assignmentID); err != nil {
		return nil, err
	}
	subs, err := s.AssignmentRepo.ListSubmissions(assignmentID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		s.resolveURL(&subs[i])
	}
	return subs, nil
}

func (s *AssignmentService) MySubmission(actor util.Actor, assignmentID uint) (*model.AssignmentSubmission, error) {
	sub, err := s.AssignmentRepo.FindSubmission(assignmentID, actor.ID)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	s.resolveURL(sub)
	return sub, nil
}

// resolveURL turns the stored object key into a client-facing URL.
func (s *AssignmentService) resolveURL(sub *model.AssignmentSubmission) {
	if sub.FileURL != "" && s.Storage != nil {
		sub.FileURL = s.Storage.GetURL(sub.FileURL)
	}
}

func (s *AssignmentService) Grade(actor util.Actor, submissionID uint, req AssignmentGradeRequest) (*model.AssignmentSubmission, error) {
	sub, err := s.AssignmentRepo.FindSubmissionByID(submissionID)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	a, err := s.loadOwned(actor, sub.AssignmentID)
	if err != nil {
		return nil, err
	}
	if req.Grade == nil || *req.Grade < 0 || *req.Grade > a.MaxPoints {
		return nil, validationError("grade must be between 0 and %d", a.MaxPoints)
	}

	now := s.Now()
	grader := actor.ID
	grade := *req.Grade
	sub.Grade = &grade
	sub.Feedback = req.Feedback
	sub.Status = model.AssignmentGraded
	sub.GradedBy = &grader
	sub.GradedAt = &now
	if err := s.AssignmentRepo.SaveSubmission(sub); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if student, err := s.UserRepo.FindByID(sub.StudentID); err == nil {
			s.Notifier.NotifyAssignmentGraded(student, a, sub)
		} else {
			logger.Log.Warn("Cannot load student to notify", zap.Uint("studentID", sub.StudentID), zap.Error(err))
		}
	}
	s.resolveURL(sub)
	return sub, nil
}
