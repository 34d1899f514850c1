package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/internal/repository"
)

// CourseService manages course layouts. Courses are validated on
// creation and treated as immutable afterwards; rounds snapshot
// everything they need from the course at start time.
type CourseService struct {
	courses repository.CourseRepository
	logger  *logrus.Logger
}

func NewCourseService(courses repository.CourseRepository, logger *logrus.Logger) *CourseService {
	return &CourseService{courses: courses, logger: logger}
}

// CreateCourse validates and stores a new course layout.
func (s *CourseService) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	course.HoleCount = len(course.Holes)
	if err := course.Validate(); err != nil {
		return nil, err
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"course_id":  course.ID,
		"hole_count": course.HoleCount,
	}).Info("Course created")
	return course, nil
}

// GetCourse returns a course by id.
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courses.Get(ctx, id)
}

// ListCourses returns all courses ordered by name.
func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}
