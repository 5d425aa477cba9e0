package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionInput struct {
	ID            string             `json:"id"`
	Type          model.QuestionType `json:"type" binding:"required,question_type"`
	Question      string             `json:"question" binding:"required"`
	Options       []model.Option     `json:"options"`
	CorrectAnswer string             `json:"correctAnswer"`
	Points        int                `json:"points" binding:"gte=0"`
	Explanation   string             `json:"explanation"`
}

type CreateAssessmentRequest struct {
	Title                      string                 `json:"title" binding:"required,max=255"`
	Description                string                 `json:"description"`
	CourseID                   uint                   `json:"courseId" binding:"required"`
	Type                       model.AssessmentType   `json:"type" binding:"omitempty,assessment_type"`
	Questions                  []QuestionInput        `json:"questions" binding:"dive"`
	Duration                   int                    `json:"duration" binding:"gte=0"`
	DueDate                    *time.Time             `json:"dueDate"`
	StartDate                  *time.Time             `json:"startDate"`
	AllowLateSubmission        bool                   `json:"allowLateSubmission"`
	ShuffleQuestions           bool                   `json:"shuffleQuestions"`
	ShowAnswersAfterSubmission bool                   `json:"showAnswersAfterSubmission"`
	AttemptsAllowed            int                    `json:"attemptsAllowed" binding:"gte=0"`
	PassingScore               *int                   `json:"passingScore" binding:"omitempty,gte=0,lte=100"`
	Status                     model.AssessmentStatus `json:"status" binding:"omitempty,assessment_status"`
}

// UpdateAssessmentRequest changes only the fields that are present. Questions replace the whole list.
type UpdateAssessmentRequest struct {
	Title                      *string                 `json:"title" binding:"omitempty,max=255"`
	Description                *string                 `json:"description"`
	Type                       *model.AssessmentType   `json:"type" binding:"omitempty,assessment_type"`
	Questions                  *[]QuestionInput        `json:"questions" binding:"omitempty,dive"`
	Duration                   *int                    `json:"duration" binding:"omitempty,gte=0"`
	DueDate                    *time.Time              `json:"dueDate"`
	StartDate                  *time.Time              `json:"startDate"`
	AllowLateSubmission        *bool                   `json:"allowLateSubmission"`
	ShuffleQuestions           *bool                   `json:"shuffleQuestions"`
	ShowAnswersAfterSubmission *bool                   `json:"showAnswersAfterSubmission"`
	AttemptsAllowed            *int                    `json:"attemptsAllowed" binding:"omitempty,gte=1"`
	PassingScore               *int                    `json:"passingScore" binding:"omitempty,gte=0,lte=100"`
	Status                     *model.AssessmentStatus `json:"status" binding:"omitempty,assessment_status"`
}

type AssessmentService struct {
	AssessmentRepo *repository.AssessmentRepository
	SubmissionRepo *repository.AssessmentSubmissionRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Notifier       *NotificationService
}

func NewAssessmentService(
	assessmentRepo *repository.AssessmentRepository,
	submissionRepo *repository.AssessmentSubmissionRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	notifier *NotificationService,
) *AssessmentService {
	return &AssessmentService{
		AssessmentRepo: assessmentRepo,
		SubmissionRepo: submissionRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Notifier:       notifier,
	}
}

func toQuestions(in []QuestionInput) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, q := range in {
		if !model.ValidQuestionType(q.Type) {
			return nil, validationError("question %d: unknown type %q", i+1, q.Type)
		}
		if strings.TrimSpace(q.Question) == "" {
			return nil, validationError("question %d: prompt is required", i+1)
		}
		if q.Points < 0 {
			return nil, validationError("question %d: points must not be negative", i+1)
		}
		if q.ID != "" {
			if seen[q.ID] {
				return nil, validationError("question %d: duplicate id %q", i+1, q.ID)
			}
			seen[q.ID] = true
		}

		question := model.Question{
			ID:          q.ID,
			Type:        q.Type,
			Question:    q.Question,
			Points:      q.Points,
			Explanation: q.Explanation,
		}
		switch q.Type {
		case model.QuestionMultipleChoice, model.QuestionTrueFalse:
			question.Options = q.Options
		case model.QuestionShortAnswer:
			question.CorrectAnswer = q.CorrectAnswer
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (s *AssessmentService) Create(actor util.Actor, req CreateAssessmentRequest) (*model.Assessment, error) {
	course, err := loadCourse(s.CourseRepo, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, course.TeacherID) {
		return nil, util.ErrForbidden
	}
	if req.Type != "" && !model.ValidAssessmentType(req.Type) {
		return nil, validationError("unknown assessment type %q", req.Type)
	}
	if req.Status != "" && !model.ValidAssessmentStatus(req.Status) {
		return nil, validationError("unknown status %q", req.Status)
	}

	questions, err := toQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	passing := model.DefaultPassingScore
	if req.PassingScore != nil {
		passing = *req.PassingScore
	}

	a := &model.Assessment{
		Title:                      strings.TrimSpace(req.Title),
		Description:                req.Description,
		CourseID:                   course.ID,
		TeacherID:                  actor.ID,
		Type:                       req.Type,
		Questions:                  questions,
		Duration:                   req.Duration,
		DueDate:                    req.DueDate,
		StartDate:                  req.StartDate,
		AllowLateSubmission:        req.AllowLateSubmission,
		ShuffleQuestions:           req.ShuffleQuestions,
		ShowAnswersAfterSubmission: req.ShowAnswersAfterSubmission,
		AttemptsAllowed:            req.AttemptsAllowed,
		PassingScore:               passing,
		Status:                     req.Status,
	}
	if err := s.AssessmentRepo.Create(a); err != nil {
		return nil, err
	}

	s.notifyCreated(a, course, actor.ID)
	return a, nil
}

func (s *AssessmentService) notifyCreated(a *model.Assessment, course *model.Course, teacherID uint) {
	if s.Notifier == nil {
		return
	}
	students, err := s.EnrollmentRepo.ListActiveStudents(course.ID)
	if err != nil {
		logger.Log.Warn("Cannot load students to notify", zap.Uint("courseID", course.ID), zap.Error(err))
		return
	}
	teacher, err := s.UserRepo.FindByID(teacherID)
	if err != nil {
		teacher = nil
	}
	s.Notifier.NotifyAssessmentCreated(students, a, course, teacher)
}

func (s *AssessmentService) loadOwned(actor util.Actor, id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "assessment")
	}
	if !canManage(actor, a.TeacherID) {
		return nil, util.ErrForbidden
	}
	return a, nil
}

func (s *AssessmentService) Update(actor util.Actor, id uint, req UpdateAssessmentRequest) (*model.Assessment, error) {
	a, err := s.loadOwned(actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Type != nil {
		if !model.ValidAssessmentType(*req.Type) {
			return nil, validationError("unknown assessment type %q", *req.Type)
		}
		a.Type = *req.Type
	}
	if req.Questions != nil {
		questions, err := toQuestions(*req.Questions)
		if err != nil {
			return nil, err
		}
		a.Questions = questions
	}
	if req.Duration != nil {
		a.Duration = *req.Duration
	}
	if req.DueDate != nil {
		a.DueDate = req.DueDate
	}
	if req.StartDate != nil {
		a.StartDate = req.StartDate
	}
	if req.AllowLateSubmission != nil {
		a.AllowLateSubmission = *req.AllowLateSubmission
	}
	if req.ShuffleQuestions != nil {
		a.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShowAnswersAfterSubmission != nil {
		a.ShowAnswersAfterSubmission = *req.ShowAnswersAfterSubmission
	}
	if req.AttemptsAllowed != nil {
		a.AttemptsAllowed = *req.AttemptsAllowed
	}
	if req.PassingScore != nil {
		a.PassingScore = *req.PassingScore
	}
	if req.Status != nil {
		if !model.ValidAssessmentStatus(*req.Status) {
			return nil, validationError("unknown status %q", *req.Status)
		}
		a.Status = *req.Status
	}

	if err := s.AssessmentRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) Delete(actor util.Actor, id uint) error {
	if _, err := s.loadOwned(actor, id); err != nil {
		return err
	}
	return s.AssessmentRepo.Delete(id)
}

// ListByCourse shows students only published assessments.
func (s *AssessmentService) ListByCourse(actor util.Actor, courseID uint) ([]model.Assessment, error) {
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseAccess(s.EnrollmentRepo, actor, course); err != nil {
		return nil, err
	}

	if canManage(actor, course.TeacherID) {
		return s.AssessmentRepo.ListByCourse(courseID, false)
	}
	list, err := s.AssessmentRepo.ListByCourse(courseID, true)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Questions = hideAnswerKeys(list[i].Questions)
	}
	return list, nil
}

// Get returns the full assessment to its owner. Students get published
// assessments only, with answer keys removed unless answers are revealed
// after submission and they have submitted.
func (s *AssessmentService) Get(actor util.Actor, id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "assessment")
	}
	if canManage(actor, a.TeacherID) {
		return a, nil
	}
	if !actor.IsStudent() {
		return nil, util.ErrForbidden
	}
	if !a.IsPublished() {
		return nil, notFound(gorm.ErrRecordNotFound, "assessment")
	}

	active, err := s.EnrollmentRepo.IsActive(a.CourseID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}

	reveal := false
	if a.ShowAnswersAfterSubmission {
		count, err := s.SubmissionRepo.CountAttempts(actor.ID, a.ID)
		if err != nil {
			return nil, err
		}
		reveal = count > 0
	}
	if !reveal {
		a.Questions = hideAnswerKeys(a.Questions)
	}
	if a.ShuffleQuestions {
		rand.Shuffle(len(a.Questions), func(i, j int) {
			a.Questions[i], a.Questions[j] = a.Questions[j], a.Questions[i]
		})
	}
	return a, nil
}

func hideAnswerKeys(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		q.CorrectAnswer = ""
		q.Explanation = ""
		if len(q.Options) > 0 {
			opts := make([]model.Option, len(q.Options))
			for j, o := range q.Options {
				opts[j] = model.Option{Text: o.Text}
			}
			q.Options = opts
		}
		out[i] = q
	}
	return out
}
