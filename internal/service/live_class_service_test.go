package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"
)

func newLiveClassService(f *fixture) *LiveClassService {
	svc := NewLiveClassService(
		repository.NewLiveClassRepository(f.db),
		repository.NewCourseRepository(f.db),
		repository.NewEnrollmentRepository(f.db),
		config.LiveClassConfig{AppID: "lms", AppSecret: "room-secret", Domain: "meet.example.com", TokenTTLMin: 30},
	)
	svc.Now = func() time.Time { return f.now }
	return svc
}

func parseRoomToken(t *testing.T, f *fixture, token string) *RoomClaims {
	t.Helper()
	claims := &RoomClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("room-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return f.now }), jwt.WithAudience("lms"))
	require.NoError(t, err)
	return claims
}

func TestLiveClassJoinToken(t *testing.T) {
	f := newFixture(t)
	svc := newLiveClassService(f)

	lc, err := svc.Create(actorOf(f.teacher), f.course.ID, LiveClassRequest{Title: "Office hours", ScheduledAt: f.now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 60, lc.DurationMinutes)
	assert.Contains(t, lc.RoomName, "bio200-")

	tests := []struct {
		name      string
		actor     util.Actor
		moderator bool
	}{
		{"teacher moderates", actorOf(f.teacher), true},
		{"student attends", actorOf(f.student), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jt, err := svc.JoinToken(tt.actor, lc.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.moderator, jt.Moderator)
			assert.Equal(t, f.now.Add(30*time.Minute), jt.ExpiresAt)
			assert.Contains(t, jt.JoinURL, "https://meet.example.com/"+lc.RoomName)

			claims := parseRoomToken(t, f, jt.Token)
			assert.Equal(t, lc.RoomName, claims.Room)
			assert.Equal(t, tt.actor.Email, claims.Context.User.Email)
			assert.Equal(t, tt.moderator, claims.Moderator)
			assert.Equal(t, "meet.example.com", claims.Subject)
		})
	}
}

func TestLiveClassJoinRules(t *testing.T) {
	f := newFixture(t)
	svc := newLiveClassService(f)
	outsider := testutil.CreateUser(t, f.db, "Olive Outsider", model.Student)

	lc, err := svc.Create(actorOf(f.teacher), f.course.ID, LiveClassRequest{Title: "Lab demo", ScheduledAt: f.now})
	require.NoError(t, err)

	_, err = svc.JoinToken(actorOf(outsider), lc.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = svc.Create(actorOf(f.student), f.course.ID, LiveClassRequest{Title: "Hijack", ScheduledAt: f.now})
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = svc.Update(actorOf(f.teacher), lc.ID, LiveClassRequest{Title: "Lab demo", ScheduledAt: f.now, Status: model.LiveClassCancelled})
	require.NoError(t, err)
	_, err = svc.JoinToken(actorOf(f.student), lc.ID)
	assert.ErrorIs(t, err, util.ErrValidation)
}
