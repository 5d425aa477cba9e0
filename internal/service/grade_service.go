package service

import (
	"lms_backend/internal/grading"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"sort"
	"time"
)

type GradeItem struct {
	Kind      string     `json:"kind"` // assessment or assignment
	ItemID    uint       `json:"itemId"`
	Title     string     `json:"title"`
	Attempt   int        `json:"attempt,omitempty"`
	Score     int        `json:"score"`
	MaxScore  int        `json:"maxScore"`
	Percent   int        `json:"percentage"`
	Passed    *bool      `json:"passed,omitempty"`
	GradedAt  *time.Time `json:"gradedAt,omitempty"`
	StudentID uint       `json:"studentId"`
}

type StudentGrades struct {
	StudentID uint        `json:"studentId"`
	Name      string      `json:"name,omitempty"`
	Items     []GradeItem `json:"items"`
	Earned    int         `json:"earned"`
	Possible  int         `json:"possible"`
	Overall   int         `json:"overallPercentage"`
}

type GradeService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	SubmissionRepo *repository.AssessmentSubmissionRepository
	AssignmentRepo *repository.AssignmentRepository
}

func NewGradeService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	submissionRepo *repository.AssessmentSubmissionRepository,
	assignmentRepo *repository.AssignmentRepository,
) *GradeService {
	return &GradeService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		SubmissionRepo: submissionRepo,
		AssignmentRepo: assignmentRepo,
	}
}

// CourseGrades returns the caller's own grades for a student, and one entry
// per student for the course's teacher. For assessments only the best graded
// attempt counts towards the overall percentage.
func (s *GradeService) CourseGrades(actor util.Actor, courseID uint) ([]StudentGrades, error) {
	course, err := loadCourse(s.CourseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseAccess(s.EnrollmentRepo, actor, course); err != nil {
		return nil, err
	}

	var studentID uint
	if !canManage(actor, course.TeacherID) {
		studentID = actor.ID
	}

	subs, err := s.SubmissionRepo.ListGradedInCourse(courseID, studentID)
	if err != nil {
		return nil, err
	}
	work, err := s.AssignmentRepo.ListGradedInCourse(courseID, studentID)
	if err != nil {
		return nil, err
	}

	byStudent := map[uint]*StudentGrades{}
	entry := func(id uint) *StudentGrades {
		g, ok := byStudent[id]
		if !ok {
			g = &StudentGrades{StudentID: id, Items: []GradeItem{}}
			byStudent[id] = g
		}
		return g
	}

	best := map[[2]uint]GradeItem{}
	for _, sub := range subs {
		if sub.Assessment == nil {
			continue
		}
		passed := sub.Passed
		item := GradeItem{
			Kind:      "assessment",
			ItemID:    sub.AssessmentID,
			Title:     sub.Assessment.Title,
			Attempt:   sub.AttemptNumber,
			Score:     sub.Score,
			MaxScore:  sub.Assessment.TotalPoints,
			Percent:   sub.Percentage,
			Passed:    &passed,
			GradedAt:  sub.GradedAt,
			StudentID: sub.StudentID,
		}
		g := entry(sub.StudentID)
		g.Items = append(g.Items, item)

		key := [2]uint{sub.StudentID, sub.AssessmentID}
		if prev, ok := best[key]; !ok || item.Score > prev.Score {
			best[key] = item
		}
	}
	for key, item := range best {
		g := entry(key[0])
		g.Earned += item.Score
		g.Possible += item.MaxScore
	}

	for _, sub := range work {
		if sub.Assignment == nil || sub.Grade == nil {
			continue
		}
		item := GradeItem{
			Kind:      "assignment",
			ItemID:    sub.AssignmentID,
			Title:     sub.Assignment.Title,
			Score:     *sub.Grade,
			MaxScore:  sub.Assignment.MaxPoints,
			Percent:   grading.Percentage(*sub.Grade, sub.Assignment.MaxPoints),
			GradedAt:  sub.GradedAt,
			StudentID: sub.StudentID,
		}
		g := entry(sub.StudentID)
		g.Items = append(g.Items, item)
		g.Earned += item.Score
		g.Possible += item.MaxScore
	}

	if studentID != 0 {
		entry(studentID)
	} else {
		enrollments, err := s.EnrollmentRepo.ListByCourse(courseID)
		if err != nil {
			return nil, err
		}
		for _, e := range enrollments {
			g := entry(e.StudentID)
			if e.Student != nil {
				g.Name = e.Student.Name
			}
		}
	}

	out := make([]StudentGrades, 0, len(byStudent))
	for _, g := range byStudent {
		g.Overall = grading.Percentage(g.Earned, g.Possible)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}
