package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/internal/services"
	"github.com/jwhitfield/fairway/pkg/utils"
)

type CoursesHandler struct {
	courses *services.CourseService
	logger  *logrus.Logger
}

func NewCoursesHandler(courses *services.CourseService, logger *logrus.Logger) *CoursesHandler {
	return &CoursesHandler{courses: courses, logger: logger}
}

type createCourseRequest struct {
	Name         string           `json:"name" binding:"required"`
	Holes        models.HoleSpecs `json:"holes" binding:"required"`
	SlopeRating  *int             `json:"slope_rating"`
	CourseRating *float64         `json:"course_rating"`
}

// Create handles POST /api/v1/courses.
func (h *CoursesHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	course := &models.Course{
		Name:         req.Name,
		Holes:        req.Holes,
		SlopeRating:  req.SlopeRating,
		CourseRating: req.CourseRating,
	}
	created, err := h.courses.CreateCourse(c.Request.Context(), course)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendCreated(c, created)
}

// Get handles GET /api/v1/courses/:id.
func (h *CoursesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid course id", "")
		return
	}

	course, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, course)
}

// List handles GET /api/v1/courses.
func (h *CoursesHandler) List(c *gin.Context) {
	courses, err := h.courses.ListCourses(c.Request.Context())
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, courses)
}
