package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

const secret = "test-secret"

func tokenFor(t *testing.T, role model.UserRole) string {
	t.Helper()
	u := &model.User{Name: "u", Email: "u@example.com", Role: role}
	u.ID = 1
	token, err := util.GenerateJWT(u, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/teach", AuthMiddleware(secret), RoleMiddleware(model.Teacher), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).Email)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing token", header: "", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "student forbidden", header: "Bearer " + tokenFor(t, model.Student), want: http.StatusForbidden},
		{name: "teacher allowed", header: "Bearer " + tokenFor(t, model.Teacher), want: http.StatusOK},
		{name: "admin allowed", header: "Bearer " + tokenFor(t, model.Admin), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/teach", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
