package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lms_backend/internal/grading"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxAttemptRetries = 3
	analyticsCacheTTL = 5 * time.Minute
	analyticsKeyFmt   = "lms:analytics:%d"
)

const (
	MsgSubmittedAndGraded = "Assessment submitted and graded"
	MsgSubmittedPending   = "Assessment submitted. Essay questions pending manual grading"
)

type AnswerInput struct {
	QuestionID string            `json:"questionId" binding:"required"`
	Answer     model.AnswerValue `json:"answer" swaggertype:"string"`
}

type SubmitAssessmentRequest struct {
	Answers   []AnswerInput `json:"answers" binding:"dive"`
	StartedAt *time.Time    `json:"startedAt"`
}

type GradeAnswerInput struct {
	QuestionID    string            `json:"questionId" binding:"required"`
	Answer        model.AnswerValue `json:"answer" swaggertype:"string"`
	IsCorrect     *bool             `json:"isCorrect"`
	PointsAwarded int               `json:"pointsAwarded" binding:"gte=0"`
	Feedback      string            `json:"feedback"`
}

// GradeSubmissionRequest: a nil Answers list keeps the stored answers.
type GradeSubmissionRequest struct {
	Answers         []GradeAnswerInput `json:"answers" binding:"omitempty,dive"`
	TeacherComments *string            `json:"teacherComments"`
}

type SubmitResult struct {
	Submission *model.AssessmentSubmission `json:"submission"`
	Message    string                      `json:"-"`
}

type SubmissionService struct {
	AssessmentRepo *repository.AssessmentRepository
	SubmissionRepo *repository.AssessmentSubmissionRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Notifier       *NotificationService
	Redis          *redis.Client
	Now            func() time.Time
}

func NewSubmissionService(
	assessmentRepo *repository.AssessmentRepository,
	submissionRepo *repository.AssessmentSubmissionRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	notifier *NotificationService,
	rdb *redis.Client,
) *SubmissionService {
	return &SubmissionService{
		AssessmentRepo: assessmentRepo,
		SubmissionRepo: submissionRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Notifier:       notifier,
		Redis:          rdb,
		Now:            time.Now,
	}
}

// Submit records and auto-grades one attempt. The write is detached from ctx
// cancellation so an accepted submission is never lost to a dropped connection.
func (s *SubmissionService) Submit(ctx context.Context, actor util.Actor, assessmentID uint, req SubmitAssessmentRequest) (*SubmitResult, error) {
	ctx, span := tracing.StartSpan(ctx, "SubmissionService.Submit",
		attribute.Int64("assessment.id", int64(assessmentID)),
		attribute.Int64("student.id", int64(actor.ID)),
	)
	defer span.End()

	if !actor.IsStudent() {
		return nil, validationError("only students can submit assessments")
	}

	a, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		return nil, notFound(err, "assessment")
	}

	now := s.Now()
	if err := checkOpen(a, now); err != nil {
		return nil, err
	}

	startedAt := now
	if req.StartedAt != nil && !req.StartedAt.After(now) {
		startedAt = *req.StartedAt
	}

	answers := make([]model.Answer, 0, len(req.Answers))
	seen := make(map[string]bool, len(req.Answers))
	for _, in := range req.Answers {
		if seen[in.QuestionID] {
			return nil, validationError("question %s is answered more than once", in.QuestionID)
		}
		seen[in.QuestionID] = true
		answers = append(answers, model.Answer{QuestionID: in.QuestionID, Answer: in.Answer})
	}

	sub := &model.AssessmentSubmission{
		AssessmentID: a.ID,
		StudentID:    actor.ID,
		Answers:      answers,
		StartedAt:    startedAt,
	}
	grading.Submit(sub, a, now)

	if err := s.createAttempt(context.WithoutCancel(ctx), a, sub); err != nil {
		return nil, err
	}

	monitoring.SubmissionsTotal.WithLabelValues(string(sub.Status)).Inc()
	s.invalidateAnalytics(ctx, a.ID)
	logger.Log.Info("Assessment submitted",
		zap.Uint("assessmentID", a.ID),
		zap.Uint("studentID", actor.ID),
		zap.Int("attempt", sub.AttemptNumber),
		zap.String("status", string(sub.Status)),
		zap.Int("percentage", sub.Percentage),
	)

	msg := MsgSubmittedAndGraded
	if grading.PendingManualGrading(sub) {
		msg = MsgSubmittedPending
	}
	return &SubmitResult{Submission: sub, Message: msg}, nil
}

func checkOpen(a *model.Assessment, now time.Time) error {
	if !a.IsPublished() {
		return validationError("assessment is not open for submissions")
	}
	if a.StartDate != nil && now.Before(*a.StartDate) {
		return validationError("assessment has not started yet")
	}
	if a.DueDate != nil && now.After(*a.DueDate) && !a.AllowLateSubmission {
		return validationError("assessment is past its due date")
	}
	return nil
}

// createAttempt runs the enrollment and attempt checks and the insert in one
// transaction. A concurrent attempt with the same number trips the unique
// index and the whole check is repeated.
func (s *SubmissionService) createAttempt(ctx context.Context, a *model.Assessment, sub *model.AssessmentSubmission) error {
	var err error
	for i := 0; i < maxAttemptRetries; i++ {
		err = s.SubmissionRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			active, err := s.EnrollmentRepo.WithTx(tx).IsActive(a.CourseID, sub.StudentID)
			if err != nil {
				return err
			}
			if !active {
				return util.ErrNotEnrolled
			}

			subs := s.SubmissionRepo.WithTx(tx)
			prior, err := subs.CountAttempts(sub.StudentID, a.ID)
			if err != nil {
				return err
			}
			if prior >= int64(a.AttemptsAllowed) {
				return fmt.Errorf("%w (%d allowed)", util.ErrAttemptLimitExceeded, a.AttemptsAllowed)
			}

			sub.ID = 0
			sub.AttemptNumber = int(prior) + 1
			return subs.Create(sub)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logger.Log.Debug("Attempt number taken, retrying", zap.Uint("assessmentID", a.ID), zap.Uint("studentID", sub.StudentID))
	}
	logger.Log.Warn("Attempt numbering kept colliding", zap.Uint("assessmentID", a.ID), zap.Uint("studentID", sub.StudentID))
	return fmt.Errorf("%w: another attempt was recorded at the same time, please resubmit: %w", util.ErrConflict, err)
}

func (s *SubmissionService) MySubmissions(actor util.Actor, assessmentID uint) ([]model.AssessmentSubmission, error) {
	if _, err := s.AssessmentRepo.FindByID(assessmentID); err != nil {
		return nil, notFound(err, "assessment")
	}
	return s.SubmissionRepo.ListByStudent(actor.ID, assessmentID)
}

func (s *SubmissionService) ListByAssessment(actor util.Actor, assessmentID uint) ([]model.AssessmentSubmission, error) {
	a, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		return nil, notFound(err, "assessment")
	}
	if !canManage(actor, a.TeacherID) {
		return nil, util.ErrForbidden
	}
	return s.SubmissionRepo.ListByAssessment(assessmentID)
}

// Get is allowed for the submitting student and the assessment's teacher.
func (s *SubmissionService) Get(actor util.Actor, id uint) (*model.AssessmentSubmission, error) {
	sub, err := s.SubmissionRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	a, err := s.AssessmentRepo.FindByID(sub.AssessmentID)
	if err != nil {
		return nil, notFound(err, "assessment")
	}
	if sub.StudentID != actor.ID && !canManage(actor, a.TeacherID) {
		return nil, util.ErrForbidden
	}
	return sub, nil
}

// Grade applies the teacher's manual grading and finalizes the submission.
func (s *SubmissionService) Grade(ctx context.Context, actor util.Actor, id uint, req GradeSubmissionRequest) (*model.AssessmentSubmission, error) {
	sub, err := s.SubmissionRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	a, err := s.AssessmentRepo.FindByID(sub.AssessmentID)
	if err != nil {
		return nil, notFound(err, "assessment")
	}
	if !canManage(actor, a.TeacherID) {
		return nil, util.ErrForbidden
	}

	var answers []model.Answer
	if req.Answers != nil {
		answers = make([]model.Answer, 0, len(req.Answers))
		seen := make(map[string]bool, len(req.Answers))
		for _, in := range req.Answers {
			if seen[in.QuestionID] {
				return nil, validationError("question %s is graded more than once", in.QuestionID)
			}
			seen[in.QuestionID] = true
			if in.PointsAwarded < 0 {
				return nil, validationError("points for %s must not be negative", in.QuestionID)
			}
			answers = append(answers, model.Answer{
				QuestionID:    in.QuestionID,
				Answer:        in.Answer,
				IsCorrect:     in.IsCorrect,
				PointsAwarded: in.PointsAwarded,
				Feedback:      strings.TrimSpace(in.Feedback),
			})
		}
	}

	grading.ManualGrade(sub, a, actor.ID, answers, req.TeacherComments, s.Now())
	if err := s.SubmissionRepo.WithContext(context.WithoutCancel(ctx)).Save(sub); err != nil {
		return nil, err
	}

	s.invalidateAnalytics(ctx, a.ID)
	logger.Log.Info("Submission graded",
		zap.Uint("submissionID", sub.ID),
		zap.Uint("graderID", actor.ID),
		zap.Int("score", sub.Score),
	)

	if s.Notifier != nil {
		student, err := s.UserRepo.FindByID(sub.StudentID)
		if err != nil {
			logger.Log.Warn("Cannot load student to notify", zap.Uint("studentID", sub.StudentID), zap.Error(err))
		} else {
			teacher, err := s.UserRepo.FindByID(actor.ID)
			if err != nil {
				teacher = nil
			}
			s.Notifier.NotifyAssessmentGraded(student, a, sub, teacher)
		}
	}
	return sub, nil
}

// Analytics summarizes graded submissions. Results are cached briefly in Redis
// and dropped whenever a submission of the assessment changes.
func (s *SubmissionService) Analytics(ctx context.Context, actor util.Actor, assessmentID uint) (*grading.Analytics, error) {
	a, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		return nil, notFound(err, "assessment")
	}
	if !canManage(actor, a.TeacherID) {
		return nil, util.ErrForbidden
	}

	key := fmt.Sprintf(analyticsKeyFmt, assessmentID)
	if s.Redis != nil {
		if data, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
			var cached grading.Analytics
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Analytics cache read failed", zap.Error(err))
		}
	}

	graded, err := s.SubmissionRepo.ListGraded(assessmentID)
	if err != nil {
		return nil, err
	}
	result := grading.Summarize(graded)

	if s.Redis != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.Redis.Set(ctx, key, data, analyticsCacheTTL).Err(); err != nil {
				logger.Log.Warn("Analytics cache write failed", zap.Error(err))
			}
		}
	}
	return &result, nil
}

func (s *SubmissionService) invalidateAnalytics(ctx context.Context, assessmentID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.WithoutCancel(ctx), fmt.Sprintf(analyticsKeyFmt, assessmentID)).Err(); err != nil {
		logger.Log.Warn("Analytics cache invalidation failed", zap.Error(err))
	}
}
