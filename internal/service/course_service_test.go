package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"
)

func TestCourseLifecycle(t *testing.T) {
	f := newFixture(t)
	courses := NewCourseService(repository.NewCourseRepository(f.db), repository.NewEnrollmentRepository(f.db))

	_, err := courses.Create(actorOf(f.student), CourseRequest{Title: "Nope", Code: "x1"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	draft, err := courses.Create(actorOf(f.teacher), CourseRequest{Title: "Genetics", Code: " gen101 "})
	require.NoError(t, err)
	assert.Equal(t, "GEN101", draft.Code)

	_, err = courses.Create(actorOf(f.teacher), CourseRequest{Title: "Again", Code: "GEN101"})
	assert.ErrorIs(t, err, util.ErrConflict)

	_, err = courses.Get(actorOf(f.student), draft.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	other := testutil.CreateUser(t, f.db, "Otto Teacher", model.Teacher)
	_, err = courses.Update(actorOf(other), draft.ID, CourseRequest{Title: "Stolen", Code: "GEN101"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	mine, err := courses.List(actorOf(f.teacher))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, courses.Delete(actorOf(f.teacher), draft.ID))
	_, err = courses.Get(actorOf(f.teacher), draft.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestEnrollAndDrop(t *testing.T) {
	f := newFixture(t)
	courseRepo := repository.NewCourseRepository(f.db)
	enrollmentRepo := repository.NewEnrollmentRepository(f.db)
	courses := NewCourseService(courseRepo, enrollmentRepo)
	enrollments := NewEnrollmentService(courseRepo, enrollmentRepo)
	newcomer := testutil.CreateUser(t, f.db, "Nina New", model.Student)

	hidden, err := courses.Create(actorOf(f.teacher), CourseRequest{Title: "Hidden", Code: "HID1"})
	require.NoError(t, err)
	_, err = enrollments.Enroll(actorOf(newcomer), hidden.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = enrollments.Enroll(actorOf(f.teacher), f.course.ID)
	assert.ErrorIs(t, err, util.ErrValidation)

	e, err := enrollments.Enroll(actorOf(newcomer), f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, e.Status)

	require.NoError(t, enrollments.Drop(actorOf(newcomer), f.course.ID))
	assert.ErrorIs(t, enrollments.Drop(actorOf(newcomer), f.course.ID), util.ErrNotEnrolled)

	_, err = enrollments.Enroll(actorOf(newcomer), f.course.ID)
	require.NoError(t, err)

	list, err := enrollments.ListStudents(actorOf(f.teacher), f.course.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = enrollments.ListStudents(actorOf(newcomer), f.course.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)
}
