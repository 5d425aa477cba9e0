package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour}}
	return NewAuthService(repository.NewUserRepository(testutil.NewDB(t)), cfg)
}

func TestRegister(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(RegisterRequest{Name: " Ada ", Email: "Ada@Example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "longenough", user.Password)

	_, err = svc.Register(RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = svc.Register(RegisterRequest{Name: "Root", Email: "root@example.com", Password: "longenough", Role: model.Admin})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Register(RegisterRequest{Name: "Tess", Email: "tess@example.com", Password: "longenough", Role: model.Teacher})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"wrong password", "tess@example.com", "nope-nope", util.ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", "longenough", util.ErrInvalidCredentials},
		{"mixed case email", "TESS@example.com", "longenough", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res.User.LastLogin)

			claims, err := util.ParseJWT(res.Token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, res.User.ID, claims.UserID)
			assert.Equal(t, model.Teacher, claims.Role)
		})
	}
}

func TestProfileNotFound(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Profile(404)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
