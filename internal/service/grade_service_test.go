package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"
)

func TestCourseGrades(t *testing.T) {
	f := newFixture(t)
	quiet := testutil.CreateUser(t, f.db, "Quinn Quiet", model.Student)
	testutil.Enroll(t, f.db, f.course, quiet, model.EnrollmentActive)

	quiz := f.createAssessment(t, CreateAssessmentRequest{
		AttemptsAllowed: 2,
		Questions:       []QuestionInput{mcInput("q1", 4), mcInput("q2", 6)},
	})
	_, err := f.submissions.Submit(context.Background(), actorOf(f.student), quiz.ID,
		SubmitAssessmentRequest{Answers: answers("q1", "Mitochondria", "q2", "Nucleus")})
	require.NoError(t, err)
	_, err = f.submissions.Submit(context.Background(), actorOf(f.student), quiz.ID,
		SubmitAssessmentRequest{Answers: answers("q1", "Nucleus", "q2", "Nucleus")})
	require.NoError(t, err)

	assignments, _ := newAssignmentService(t, f)
	hw, err := assignments.Create(actorOf(f.teacher), f.course.ID, AssignmentRequest{Title: "Essay", MaxPoints: 10})
	require.NoError(t, err)
	sub, err := assignments.Submit(context.Background(), actorOf(f.student), hw.ID, AssignmentSubmitRequest{Content: "text"})
	require.NoError(t, err)
	nine := 9
	_, err = assignments.Grade(actorOf(f.teacher), sub.ID, AssignmentGradeRequest{Grade: &nine})
	require.NoError(t, err)
	f.notifier.Wait()

	svc := NewGradeService(
		repository.NewCourseRepository(f.db),
		repository.NewEnrollmentRepository(f.db),
		repository.NewAssessmentSubmissionRepository(f.db),
		repository.NewAssignmentRepository(f.db),
	)

	mine, err := svc.CourseGrades(actorOf(f.student), f.course.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Items, 3)
	// best attempt 4/10 plus assignment 9/10
	assert.Equal(t, 13, mine[0].Earned)
	assert.Equal(t, 20, mine[0].Possible)
	assert.Equal(t, 65, mine[0].Overall)

	all, err := svc.CourseGrades(actorOf(f.teacher), f.course.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	byID := map[uint]StudentGrades{all[0].StudentID: all[0], all[1].StudentID: all[1]}
	assert.Equal(t, "Quinn Quiet", byID[quiet.ID].Name)
	assert.Empty(t, byID[quiet.ID].Items)
	assert.Zero(t, byID[quiet.ID].Overall)

	outsider := testutil.CreateUser(t, f.db, "Olive Outsider", model.Student)
	_, err = svc.CourseGrades(actorOf(outsider), f.course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}
