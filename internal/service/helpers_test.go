package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Mail
	fail map[string]bool
}

func (m *recordingMailer) Send(ctx context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[mail.To] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, mail := range m.sent {
		out = append(out, mail.To)
	}
	return out
}

type fixture struct {
	db          *gorm.DB
	rdb         *redis.Client
	mailer      *recordingMailer
	notifier    *NotificationService
	assessments *AssessmentService
	submissions *SubmissionService

	teacher *model.User
	student *model.User
	course  *model.Course
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	submissionRepo := repository.NewAssessmentSubmissionRepository(db)

	mailer := &recordingMailer{fail: map[string]bool{}}
	notifier := NewNotificationService(mailer, rdb, 50, enrollments, assessmentRepo, submissionRepo)

	f := &fixture{
		db:          db,
		rdb:         rdb,
		mailer:      mailer,
		notifier:    notifier,
		assessments: NewAssessmentService(assessmentRepo, submissionRepo, courses, enrollments, users, notifier),
		submissions: NewSubmissionService(assessmentRepo, submissionRepo, enrollments, users, notifier, rdb),
		now:         time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
	f.submissions.Now = func() time.Time { return f.now }

	f.teacher = testutil.CreateUser(t, db, "Grace Teacher", model.Teacher)
	f.student = testutil.CreateUser(t, db, "Sam Student", model.Student)
	f.course = testutil.CreateCourse(t, db, f.teacher, "BIO200")
	testutil.Enroll(t, db, f.course, f.student, model.EnrollmentActive)
	return f
}

func actorOf(u *model.User) util.Actor {
	return util.Actor{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

func mcInput(id string, points int) QuestionInput {
	return QuestionInput{
		ID:       id,
		Type:     model.QuestionMultipleChoice,
		Question: "Powerhouse of the cell?",
		Points:   points,
		Options: []model.Option{
			{Text: "Nucleus"},
			{Text: "Mitochondria", IsCorrect: true},
		},
	}
}

func (f *fixture) createAssessment(t *testing.T, req CreateAssessmentRequest) *model.Assessment {
	t.Helper()
	if req.CourseID == 0 {
		req.CourseID = f.course.ID
	}
	if req.Title == "" {
		req.Title = "Cells quiz"
	}
	if req.Status == "" {
		req.Status = model.AssessmentPublished
	}
	a, err := f.assessments.Create(actorOf(f.teacher), req)
	require.NoError(t, err)
	f.notifier.Wait()
	return a
}

func answers(pairs ...string) []AnswerInput {
	out := make([]AnswerInput, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, AnswerInput{QuestionID: pairs[i], Answer: model.TextAnswer(pairs[i+1])})
	}
	return out
}
