package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
)

func seedAssessment(t *testing.T, db *gorm.DB, course *model.Course, status model.AssessmentStatus) *model.Assessment {
	t.Helper()
	a := &model.Assessment{
		Title:     "Quiz",
		CourseID:  course.ID,
		TeacherID: course.TeacherID,
		Status:    status,
		Questions: []model.Question{{Type: model.QuestionShortAnswer, Points: 4, CorrectAnswer: "x"}},
	}
	require.NoError(t, NewAssessmentRepository(db).Create(a))
	return a
}

func TestAssessmentRepositoryRecomputesTotalPoints(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher One", model.Teacher)
	course := testutil.CreateCourse(t, db, teacher, "CS101")
	repo := NewAssessmentRepository(db)

	a := seedAssessment(t, db, course, model.AssessmentDraft)
	a.TotalPoints = 1000
	a.Questions = append(a.Questions, model.Question{Type: model.QuestionEssay, Points: 6})
	require.NoError(t, repo.Update(a))

	stored, err := repo.FindByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.TotalPoints)
	require.Len(t, stored.Questions, 2)
	assert.NotEmpty(t, stored.Questions[1].ID)
}

func TestAssessmentRepositoryDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher One", model.Teacher)
	student := testutil.CreateUser(t, db, "Student One", model.Student)
	course := testutil.CreateCourse(t, db, teacher, "CS101")
	a := seedAssessment(t, db, course, model.AssessmentPublished)

	subs := NewAssessmentSubmissionRepository(db)
	require.NoError(t, subs.Create(&model.AssessmentSubmission{AssessmentID: a.ID, StudentID: student.ID, AttemptNumber: 1, Status: model.SubmissionGraded}))

	require.NoError(t, NewAssessmentRepository(db).Delete(a.ID))

	count, err := subs.CountAttempts(student.ID, a.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = NewAssessmentRepository(db).FindByID(a.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmissionAttemptUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher One", model.Teacher)
	student := testutil.CreateUser(t, db, "Student One", model.Student)
	course := testutil.CreateCourse(t, db, teacher, "CS101")
	a := seedAssessment(t, db, course, model.AssessmentPublished)
	repo := NewAssessmentSubmissionRepository(db)

	first := &model.AssessmentSubmission{AssessmentID: a.ID, StudentID: student.ID, AttemptNumber: 1, Status: model.SubmissionSubmitted}
	require.NoError(t, repo.Create(first))

	dup := &model.AssessmentSubmission{AssessmentID: a.ID, StudentID: student.ID, AttemptNumber: 1, Status: model.SubmissionSubmitted}
	assert.ErrorIs(t, repo.Create(dup), gorm.ErrDuplicatedKey)

	second := &model.AssessmentSubmission{AssessmentID: a.ID, StudentID: student.ID, AttemptNumber: 2, Status: model.SubmissionGraded}
	require.NoError(t, repo.Create(second))

	list, err := repo.ListByStudent(student.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].AttemptNumber)

	graded, err := repo.ListGraded(a.ID)
	require.NoError(t, err)
	assert.Len(t, graded, 1)

	ids, err := repo.SubmittedStudentIDs(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{student.ID}, ids)
}

func TestSubmissionAnswersRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher One", model.Teacher)
	student := testutil.CreateUser(t, db, "Student One", model.Student)
	course := testutil.CreateCourse(t, db, teacher, "CS101")
	a := seedAssessment(t, db, course, model.AssessmentPublished)
	repo := NewAssessmentSubmissionRepository(db)

	correct := true
	sub := &model.AssessmentSubmission{
		AssessmentID:  a.ID,
		StudentID:     student.ID,
		AttemptNumber: 1,
		Status:        model.SubmissionGraded,
		Answers: []model.Answer{
			{QuestionID: "q1", Answer: model.ListAnswer("a", "b"), IsCorrect: &correct, PointsAwarded: 2},
			{QuestionID: "q2", Answer: model.NumberAnswer(3.5)},
		},
	}
	require.NoError(t, repo.Create(sub))

	stored, err := repo.FindByID(sub.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 2)
	assert.Equal(t, model.ListAnswer("a", "b"), stored.Answers[0].Answer)
	assert.Equal(t, model.NumberAnswer(3.5), stored.Answers[1].Answer)
	assert.Nil(t, stored.Answers[1].IsCorrect)
}

func TestEnrollmentRepository(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher One", model.Teacher)
	alice := testutil.CreateUser(t, db, "Alice", model.Student)
	bob := testutil.CreateUser(t, db, "Bob", model.Student)
	course := testutil.CreateCourse(t, db, teacher, "CS101")
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	_, err := repo.Upsert(course.ID, alice.ID, now)
	require.NoError(t, err)
	_, err = repo.Upsert(course.ID, bob.ID, now)
	require.NoError(t, err)

	affected, err := repo.SetStatus(course.ID, bob.ID, model.EnrollmentDropped)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	active, err := repo.IsActive(course.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, active)

	students, err := repo.ListActiveStudents(course.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, alice.ID, students[0].ID)

	revived, err := repo.Upsert(course.ID, bob.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, revived.Status)

	all, err := repo.ListByCourse(course.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	courses, err := NewCourseRepository(db).ListByStudent(bob.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].ID)
}

func TestGradedInCourse(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher One", model.Teacher)
	student := testutil.CreateUser(t, db, "Student One", model.Student)
	course := testutil.CreateCourse(t, db, teacher, "CS101")
	other := testutil.CreateCourse(t, db, teacher, "CS102")
	a := seedAssessment(t, db, course, model.AssessmentPublished)
	b := seedAssessment(t, db, other, model.AssessmentPublished)

	subs := NewAssessmentSubmissionRepository(db)
	require.NoError(t, subs.Create(&model.AssessmentSubmission{AssessmentID: a.ID, StudentID: student.ID, AttemptNumber: 1, Status: model.SubmissionGraded, Score: 4}))
	require.NoError(t, subs.Create(&model.AssessmentSubmission{AssessmentID: a.ID, StudentID: student.ID, AttemptNumber: 2, Status: model.SubmissionSubmitted}))
	require.NoError(t, subs.Create(&model.AssessmentSubmission{AssessmentID: b.ID, StudentID: student.ID, AttemptNumber: 1, Status: model.SubmissionGraded}))

	got, err := subs.ListGradedInCourse(course.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Assessment)
	assert.Equal(t, a.ID, got[0].Assessment.ID)

	assignments := NewAssignmentRepository(db)
	hw := &model.Assignment{CourseID: course.ID, TeacherID: teacher.ID, Title: "HW1", MaxPoints: 10}
	require.NoError(t, assignments.Create(hw))
	grade := 8
	require.NoError(t, assignments.SaveSubmission(&model.AssignmentSubmission{AssignmentID: hw.ID, StudentID: student.ID, Status: model.AssignmentGraded, Grade: &grade, SubmittedAt: time.Now()}))

	graded, err := assignments.ListGradedInCourse(course.ID, 0)
	require.NoError(t, err)
	require.Len(t, graded, 1)
	assert.Equal(t, "HW1", graded[0].Assignment.Title)
}

func TestCourseDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher One", model.Teacher)
	student := testutil.CreateUser(t, db, "Student One", model.Student)
	course := testutil.CreateCourse(t, db, teacher, "CS101")
	testutil.Enroll(t, db, course, student, model.EnrollmentActive)
	a := seedAssessment(t, db, course, model.AssessmentPublished)
	subs := NewAssessmentSubmissionRepository(db)
	require.NoError(t, subs.Create(&model.AssessmentSubmission{AssessmentID: a.ID, StudentID: student.ID, AttemptNumber: 1, Status: model.SubmissionGraded}))

	require.NoError(t, NewCourseRepository(db).Delete(course.ID))

	count, err := subs.CountAttempts(student.ID, a.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	list, err := NewAssessmentRepository(db).ListByCourse(course.ID, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}
