package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
)

const fixture = `
users:
  - name: Grace
    email: Grace@Example.com
    password: secret-1
    role: teacher
  - name: Alan
    email: alan@example.com
    password: secret-2
courses:
  - title: Algorithms
    code: cs101
    teacher: grace@example.com
    published: true
    students: [alan@example.com]
`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: fixture},
		{name: "bad role", body: "users:\n  - {email: a@b.c, password: x, role: janitor}\n", wantErr: "unknown role"},
		{name: "missing password", body: "users:\n  - {email: a@b.c}\n", wantErr: "required"},
		{name: "course without teacher", body: "courses:\n  - {code: X1}\n", wantErr: "required"},
		{name: "not yaml", body: "users: [", wantErr: "parse seed file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.Student, f.Users[1].Role)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	f, err := Parse([]byte(fixture))
	require.NoError(t, err)

	res, err := Apply(db, f, now)
	require.NoError(t, err)
	assert.Equal(t, &Result{UsersCreated: 2, CoursesCreated: 1, Enrollments: 1}, res)

	var grace model.User
	require.NoError(t, db.Where("email = ?", "grace@example.com").First(&grace).Error)
	assert.Equal(t, model.Teacher, grace.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(grace.Password), []byte("secret-1")))

	var course model.Course
	require.NoError(t, db.Where("code = ?", "CS101").First(&course).Error)
	assert.Equal(t, grace.ID, course.TeacherID)
	assert.True(t, course.IsPublished)

	res, err = Apply(db, f, now)
	require.NoError(t, err)
	assert.Equal(t, &Result{}, res)
}

func TestApplyRejectsStudentTeacher(t *testing.T) {
	db := testutil.NewDB(t)
	f, err := Parse([]byte("users:\n  - {email: s@example.com, password: x}\ncourses:\n  - {code: X1, teacher: s@example.com}\n"))
	require.NoError(t, err)

	_, err = Apply(db, f, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a teacher")

	var count int64
	db.Model(&model.User{}).Count(&count)
	assert.Zero(t, count, "failed seed must roll back")
}
