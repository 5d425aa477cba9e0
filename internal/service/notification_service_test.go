package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
)

func TestNotificationLogIsCapped(t *testing.T) {
	f := newFixture(t)
	f.notifier.SetLogSize(3)
	f.mailer.fail["broken@example.com"] = true

	students := []model.User{
		{Name: "A", Email: "a@example.com"},
		{Name: "B", Email: "broken@example.com"},
		{Name: "C", Email: "c@example.com"},
		{Name: "D", Email: "d@example.com"},
	}
	a := &model.Assessment{Title: "Midterm", Type: model.AssessmentExam, TotalPoints: 40}
	f.notifier.NotifyAssessmentCreated(students, a, f.course, f.teacher)
	f.notifier.Wait()

	recent, err := f.notifier.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "d@example.com", recent[0].Recipient)
	assert.Equal(t, model.NotificationFailed, recent[2].Outcome)
	assert.Equal(t, "mailbox unavailable", recent[2].Error)
	assert.Equal(t, model.NotifyAssessmentCreated, recent[0].Kind)
}

func TestDeadlineReminders(t *testing.T) {
	f := newFixture(t)
	done := testutil.CreateUser(t, f.db, "Done Already", model.Student)
	testutil.Enroll(t, f.db, f.course, done, model.EnrollmentActive)

	soon := f.now.Add(6 * time.Hour)
	later := f.now.Add(72 * time.Hour)
	due := f.createAssessment(t, CreateAssessmentRequest{Title: "Due soon", DueDate: &soon, Questions: []QuestionInput{mcInput("q1", 1)}})
	f.createAssessment(t, CreateAssessmentRequest{Title: "Due later", DueDate: &later})
	f.createAssessment(t, CreateAssessmentRequest{Title: "Draft soon", DueDate: &soon, Status: model.AssessmentDraft})

	_, err := f.submissions.Submit(context.Background(), actorOf(done), due.ID, SubmitAssessmentRequest{Answers: answers("q1", "Nucleus")})
	require.NoError(t, err)
	before := len(f.mailer.recipients())

	sent, err := f.notifier.SendDeadlineReminders(context.Background(), f.now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	recipients := f.mailer.recipients()
	require.Len(t, recipients, before+1)
	assert.Equal(t, f.student.Email, recipients[len(recipients)-1])

	again, err := f.notifier.SendDeadlineReminders(context.Background(), f.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	f := newFixture(t)
	_, err := f.notifier.StartScheduler("not a cron spec")
	assert.Error(t, err)

	c, err := f.notifier.StartScheduler("@hourly")
	require.NoError(t, err)
	c.Stop()
}

func TestReloadingMailerSwitchesBackend(t *testing.T) {
	m := NewReloadingMailer(config.MailConfig{})
	_, isLog := m.current.(LogMailer)
	assert.True(t, isLog)
	require.NoError(t, m.Send(context.Background(), Mail{To: "x@example.com"}))

	m.Reload(config.MailConfig{Host: "smtp.example.com", From: "lms@example.com"})
	smtpMailer, ok := m.current.(*SMTPMailer)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com", smtpMailer.Cfg.Host)
}
