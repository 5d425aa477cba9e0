package service

import (
	"context"
	"encoding/json"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	notificationLogKey = "lms:notifications"
	reminderKeyPrefix  = "lms:reminder:"
	reminderWindow     = 24 * time.Hour
	sendTimeout        = 30 * time.Second
)

type notification struct {
	kind model.NotificationKind
	mail Mail
}

// NotificationService sends email in the background. Delivery failures are
// logged and counted, never returned to the request that caused them.
type NotificationService struct {
	Mailer         Mailer
	Redis          *redis.Client
	EnrollmentRepo *repository.EnrollmentRepository
	AssessmentRepo *repository.AssessmentRepository
	SubmissionRepo *repository.AssessmentSubmissionRepository

	logSize atomic.Int64
	wg      sync.WaitGroup
}

func NewNotificationService(
	mailer Mailer,
	rdb *redis.Client,
	logSize int64,
	enrollmentRepo *repository.EnrollmentRepository,
	assessmentRepo *repository.AssessmentRepository,
	submissionRepo *repository.AssessmentSubmissionRepository,
) *NotificationService {
	s := &NotificationService{
		Mailer:         mailer,
		Redis:          rdb,
		EnrollmentRepo: enrollmentRepo,
		AssessmentRepo: assessmentRepo,
		SubmissionRepo: submissionRepo,
	}
	s.SetLogSize(logSize)
	return s
}

func (s *NotificationService) SetLogSize(n int64) {
	if n <= 0 {
		n = 500
	}
	s.logSize.Store(n)
}

// Wait blocks until every dispatched batch has finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

// WaitContext is Wait bounded by ctx. Batches still running when ctx ends are abandoned.
func (s *NotificationService) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) dispatch(batch []notification) {
	if len(batch) == 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, n := range batch {
			s.deliver(context.Background(), n)
		}
	}()
}

func (s *NotificationService) deliver(ctx context.Context, n notification) model.NotificationRecord {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	rec := model.NotificationRecord{
		Kind:      n.kind,
		Recipient: n.mail.To,
		Subject:   n.mail.Subject,
		Outcome:   model.NotificationSent,
		At:        time.Now(),
	}
	if err := s.Mailer.Send(sendCtx, n.mail); err != nil {
		rec.Outcome = model.NotificationFailed
		rec.Error = err.Error()
		logger.Log.Warn("Notification delivery failed",
			zap.String("kind", string(n.kind)),
			zap.String("to", n.mail.To),
			zap.Error(err),
		)
	}

	monitoring.NotificationsTotal.WithLabelValues(string(n.kind), string(rec.Outcome)).Inc()
	s.record(ctx, rec)
	return rec
}

func (s *NotificationService) record(ctx context.Context, rec model.NotificationRecord) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	pipe := s.Redis.TxPipeline()
	pipe.LPush(ctx, notificationLogKey, data)
	pipe.LTrim(ctx, notificationLogKey, 0, s.logSize.Load()-1)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Warn("Failed to record notification", zap.Error(err))
	}
}

// Recent returns the newest delivery records first.
func (s *NotificationService) Recent(ctx context.Context, limit int64) ([]model.NotificationRecord, error) {
	records := []model.NotificationRecord{}
	if s.Redis == nil {
		return records, nil
	}
	if limit <= 0 || limit > s.logSize.Load() {
		limit = s.logSize.Load()
	}

	raw, err := s.Redis.LRange(ctx, notificationLogKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	for _, item := range raw {
		var rec model.NotificationRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *NotificationService) NotifyAssessmentCreated(students []model.User, a *model.Assessment, course *model.Course, teacher *model.User) {
	subject := fmt.Sprintf("New %s in %s: %s", a.Type, course.Title, a.Title)
	due := "no due date"
	if a.DueDate != nil {
		due = "due " + a.DueDate.Format(time.RFC1123)
	}
	body := fmt.Sprintf("%s published \"%s\" in %s (%d points, %s).\n\n%s\n",
		teacherName(teacher), a.Title, course.Title, a.TotalPoints, due, a.Description)

	batch := make([]notification, 0, len(students))
	for _, st := range students {
		batch = append(batch, notification{
			kind: model.NotifyAssessmentCreated,
			mail: Mail{To: st.Email, Subject: subject, Body: fmt.Sprintf("Hi %s,\n\n%s", st.Name, body)},
		})
	}
	s.dispatch(batch)
}

func (s *NotificationService) NotifyAssessmentGraded(student *model.User, a *model.Assessment, sub *model.AssessmentSubmission, teacher *model.User) {
	result := "did not pass"
	if sub.Passed {
		result = "passed"
	}
	body := fmt.Sprintf("Hi %s,\n\n%s graded your attempt %d of \"%s\": %d/%d points (%d%%), you %s.\n",
		student.Name, teacherName(teacher), sub.AttemptNumber, a.Title, sub.Score, a.TotalPoints, sub.Percentage, result)
	if sub.TeacherComments != "" {
		body += "\nComments: " + sub.TeacherComments + "\n"
	}
	s.dispatch([]notification{{
		kind: model.NotifyAssessmentGraded,
		mail: Mail{To: student.Email, Subject: "Graded: " + a.Title, Body: body},
	}})
}

func (s *NotificationService) NotifyAssignmentGraded(student *model.User, a *model.Assignment, sub *model.AssignmentSubmission) {
	grade := 0
	if sub.Grade != nil {
		grade = *sub.Grade
	}
	body := fmt.Sprintf("Hi %s,\n\nYour submission for \"%s\" was graded: %d/%d points.\n", student.Name, a.Title, grade, a.MaxPoints)
	if sub.Feedback != "" {
		body += "\nFeedback: " + sub.Feedback + "\n"
	}
	s.dispatch([]notification{{
		kind: model.NotifyAssignmentGraded,
		mail: Mail{To: student.Email, Subject: "Graded: " + a.Title, Body: body},
	}})
}

// SendDeadlineReminders mails active students about published assessments due
// within the next day that they have not submitted yet. Each (assessment,
// student) pair is reminded once. Returns the number of reminders sent.
func (s *NotificationService) SendDeadlineReminders(ctx context.Context, now time.Time) (int, error) {
	assessments, err := s.AssessmentRepo.ListPublishedDueBetween(now, now.Add(reminderWindow))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range assessments {
		a := &assessments[i]
		students, err := s.EnrollmentRepo.ListActiveStudents(a.CourseID)
		if err != nil {
			return sent, err
		}
		submitted, err := s.SubmissionRepo.SubmittedStudentIDs(a.ID)
		if err != nil {
			return sent, err
		}
		done := make(map[uint]bool, len(submitted))
		for _, id := range submitted {
			done[id] = true
		}

		for _, st := range students {
			if done[st.ID] || !s.claimReminder(ctx, a, st.ID, now) {
				continue
			}
			rec := s.deliver(ctx, notification{
				kind: model.NotifyDeadlineReminder,
				mail: Mail{
					To:      st.Email,
					Subject: "Reminder: " + a.Title + " is due soon",
					Body: fmt.Sprintf("Hi %s,\n\n\"%s\" is due %s and you have not submitted it yet.\n",
						st.Name, a.Title, a.DueDate.Format(time.RFC1123)),
				},
			})
			if rec.Outcome == model.NotificationSent {
				sent++
			}
		}
	}
	return sent, nil
}

// claimReminder reserves the reminder slot; without Redis every run reminds again.
func (s *NotificationService) claimReminder(ctx context.Context, a *model.Assessment, studentID uint, now time.Time) bool {
	if s.Redis == nil {
		return true
	}
	ttl := a.DueDate.Sub(now) + time.Hour
	key := fmt.Sprintf("%s%d:%d", reminderKeyPrefix, a.ID, studentID)
	ok, err := s.Redis.SetNX(ctx, key, now.Unix(), ttl).Result()
	if err != nil {
		logger.Log.Warn("Reminder dedup unavailable", zap.Error(err))
		return true
	}
	return ok
}

// StartScheduler runs the reminder job on spec until the returned cron is stopped.
func (s *NotificationService) StartScheduler(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		sent, err := s.SendDeadlineReminders(context.Background(), time.Now())
		if err != nil {
			logger.Log.Error("Deadline reminder job failed", zap.Error(err))
			return
		}
		logger.Log.Info("Deadline reminders sent", zap.Int("count", sent))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func teacherName(teacher *model.User) string {
	if teacher == nil || teacher.Name == "" {
		return "Your teacher"
	}
	return teacher.Name
}
