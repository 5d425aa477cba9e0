package service

import (
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type LiveClassRequest struct {
	Title           string                `json:"title" binding:"required,max=255"`
	Description     string                `json:"description"`
	ScheduledAt     time.Time             `json:"scheduledAt" binding:"required"`
	DurationMinutes int                   `json:"durationMinutes" binding:"omitempty,gte=1,lte=600"`
	Status          model.LiveClassStatus `json:"status" binding:"omitempty,oneof=scheduled ended cancelled"`
}

type RoomUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

type RoomContext struct {
	User RoomUser `json:"user"`
}

// RoomClaims follow the video bridge's JWT layout.
type RoomClaims struct {
	Room      string      `json:"room"`
	Context   RoomContext `json:"context"`
	Moderator bool        `json:"moderator"`
	jwt.RegisteredClaims
}

type JoinToken struct {
	Token     string    `json:"token"`
	RoomName  string    `json:"roomName"`
	JoinURL   string    `json:"joinUrl"`
	Moderator bool      `json:"moderator"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type LiveClassService struct {
	LiveClassRepo  *repository.LiveClassRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Cfg            config.LiveClassConfig
	Now            func() time.Time
}

func NewLiveClassService(
	liveClassRepo *repository.LiveClassRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	cfg config.LiveClassConfig,
) *LiveClassService {
	return &LiveClassService{
		LiveClassRepo:  liveClassRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Cfg:            cfg,
		Now:            time.Now,
	}
}

func (s *LiveClassService) Create(actor util.Actor, courseID uint, req LiveClassRequest) (*model.LiveClass, error) {
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, course.TeacherID) {
		return nil, util.ErrForbidden
	}

	lc := &model.LiveClass{
		CourseID:        course.ID,
		TeacherID:       actor.ID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		RoomName:        roomName(course),
		Status:          model.LiveClassScheduled,
	}
	if lc.DurationMinutes == 0 {
		lc.DurationMinutes = 60
	}
	if err := s.LiveClassRepo.Create(lc); err != nil {
		return nil, err
	}
	return lc, nil
}

func roomName(course *model.Course) string {
	code := strings.ToLower(strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, course.Code))
	return fmt.Sprintf("%s-%s", code, strings.ReplaceAll(model.GenerateUUID(), "-", "")[:16])
}

func (s *LiveClassService) loadOwned(actor util.Actor, id uint) (*model.LiveClass, error) {
	lc, err := s.LiveClassRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "live class")
	}
	if !canManage(actor, lc.TeacherID) {
		return nil, util.ErrForbidden
	}
	return lc, nil
}

func (s *LiveClassService) Update(actor util.Actor, id uint, req LiveClassRequest) (*model.LiveClass, error) {
	lc, err := s.loadOwned(actor, id)
	if err != nil {
		return nil, err
	}
	lc.Title = strings.TrimSpace(req.Title)
	lc.Description = req.Description
	lc.ScheduledAt = req.ScheduledAt
	if req.DurationMinutes > 0 {
		lc.DurationMinutes = req.DurationMinutes
	}
	if req.Status != "" {
		lc.Status = req.Status
	}
	if err := s.LiveClassRepo.Update(lc); err != nil {
		return nil, err
	}
	return lc, nil
}

func (s *LiveClassService) Delete(actor util.Actor, id uint) error {
	if _, err := s.loadOwned(actor, id); err != nil {
		return err
	}
	return s.LiveClassRepo.Delete(id)
}

func (s *LiveClassService) ListByCourse(actor util.Actor, courseID uint) ([]model.LiveClass, error) {
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseAccess(s.EnrollmentRepo, actor, course); err != nil {
		return nil, err
	}
	return s.LiveClassRepo.ListByCourse(courseID)
}

// JoinToken mints a short-lived room token. The owning teacher joins as moderator.
func (s *LiveClassService) JoinToken(actor util.Actor, id uint) (*JoinToken, error) {
	lc, err := s.LiveClassRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "live class")
	}
	if lc.Status == model.LiveClassCancelled || lc.Status == model.LiveClassEnded {
		return nil, validationError("live class is %s", lc.Status)
	}
	course, err := loadCourse(s.CourseRepo, lc.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseAccess(s.EnrollmentRepo, actor, course); err != nil {
		return nil, err
	}
	if s.Cfg.AppSecret == "" {
		return nil, fmt.Errorf("live class app secret is not configured")
	}

	ttl := time.Duration(s.Cfg.TokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	now := s.Now()
	expiresAt := now.Add(ttl)
	moderator := canManage(actor, lc.TeacherID)

	claims := RoomClaims{
		Room:      lc.RoomName,
		Moderator: moderator,
		Context: RoomContext{User: RoomUser{
			ID:    strconv.FormatUint(uint64(actor.ID), 10),
			Name:  actor.Name,
			Email: actor.Email,
		}},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Cfg.AppID,
			Subject:   s.Cfg.Domain,
			Audience:  jwt.ClaimStrings{s.Cfg.AppID},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Cfg.AppSecret))
	if err != nil {
		return nil, err
	}

	joinURL := ""
	if s.Cfg.Domain != "" {
		joinURL = fmt.Sprintf("https://%s/%s?jwt=%s", s.Cfg.Domain, lc.RoomName, token)
	}
	return &JoinToken{
		Token:     token,
		RoomName:  lc.RoomName,
		JoinURL:   joinURL,
		Moderator: moderator,
		ExpiresAt: expiresAt,
	}, nil
}
