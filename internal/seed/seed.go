// Package seed loads demo users, courses and enrollments from a YAML file.
// Applying the same file twice leaves the database unchanged.
package seed

import (
	"errors"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type User struct {
	Name     string         `yaml:"name"`
	Email    string         `yaml:"email"`
	Password string         `yaml:"password"`
	Role     model.UserRole `yaml:"role"`
}

type Course struct {
	Title       string   `yaml:"title"`
	Code        string   `yaml:"code"`
	Description string   `yaml:"description"`
	Teacher     string   `yaml:"teacher"`
	Published   bool     `yaml:"published"`
	Students    []string `yaml:"students"`
}

type Fixture struct {
	Users   []User   `yaml:"users"`
	Courses []Course `yaml:"courses"`
}

type Result struct {
	UsersCreated   int
	CoursesCreated int
	Enrollments    int
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("user %d: email and password are required", i+1)
		}
		switch u.Role {
		case model.Student, model.Teacher, model.Admin:
		case "":
			f.Users[i].Role = model.Student
		default:
			return nil, fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
		}
	}
	for i, c := range f.Courses {
		if c.Code == "" || c.Teacher == "" {
			return nil, fmt.Errorf("course %d: code and teacher are required", i+1)
		}
	}
	return &f, nil
}

// Apply creates whatever the fixture names that is not there yet. Users are
// matched by email and courses by code; existing rows are left as they are.
func Apply(db *gorm.DB, f *Fixture, now time.Time) (*Result, error) {
	var res Result
	err := db.Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		courses := repository.NewCourseRepository(tx)
		enrollments := repository.NewEnrollmentRepository(tx)

		byEmail := make(map[string]*model.User, len(f.Users))
		for _, u := range f.Users {
			email := strings.ToLower(strings.TrimSpace(u.Email))
			existing, err := users.FindByEmail(email)
			if err == nil {
				byEmail[email] = existing
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			created := &model.User{Name: u.Name, Email: email, Password: string(hash), Role: u.Role}
			if err := users.Create(created); err != nil {
				return fmt.Errorf("create user %s: %w", email, err)
			}
			byEmail[email] = created
			res.UsersCreated++
		}

		lookup := func(email string) (*model.User, error) {
			email = strings.ToLower(strings.TrimSpace(email))
			if u, ok := byEmail[email]; ok {
				return u, nil
			}
			u, err := users.FindByEmail(email)
			if err != nil {
				return nil, fmt.Errorf("unknown user %s: %w", email, err)
			}
			byEmail[email] = u
			return u, nil
		}

		for _, c := range f.Courses {
			teacher, err := lookup(c.Teacher)
			if err != nil {
				return err
			}
			if teacher.Role == model.Student {
				return fmt.Errorf("course %s: %s is not a teacher", c.Code, teacher.Email)
			}

			code := strings.ToUpper(strings.TrimSpace(c.Code))
			course, err := courses.FindByCode(code)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				course = &model.Course{
					Title:       c.Title,
					Code:        code,
					Description: c.Description,
					TeacherID:   teacher.ID,
					IsPublished: c.Published,
				}
				if err := courses.Create(course); err != nil {
					return fmt.Errorf("create course %s: %w", code, err)
				}
				res.CoursesCreated++
			} else if err != nil {
				return err
			}

			for _, email := range c.Students {
				student, err := lookup(email)
				if err != nil {
					return err
				}
				if _, err := enrollments.Find(course.ID, student.ID); err == nil {
					continue
				}
				if _, err := enrollments.Upsert(course.ID, student.ID, now); err != nil {
					return fmt.Errorf("enroll %s in %s: %w", student.Email, code, err)
				}
				res.Enrollments++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Seed data applied",
		zap.Int("usersCreated", res.UsersCreated),
		zap.Int("coursesCreated", res.CoursesCreated),
		zap.Int("enrollments", res.Enrollments),
	)
	return &res, nil
}
