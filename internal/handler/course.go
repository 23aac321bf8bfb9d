package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dhammaseva/center-console/internal/repository"
	"github.com/dhammaseva/center-console/internal/seating"
)

// knownCourseTypes lists accepted course_type values. TEN_DAY selects the
// sum scoring mode; every other type scores by hierarchy.
var knownCourseTypes = map[string]bool{
	"TEN_DAY":       true,
	"SATIPATTHANA":  true,
	"TWENTY_DAY":    true,
	"THIRTY_DAY":    true,
	"FORTYFIVE_DAY": true,
	"SIXTY_DAY":     true,
}

// ScoreModeForCourse maps a course type to the seating score mode.
func ScoreModeForCourse(courseType string) seating.ScoreMode {
	if courseType == "TEN_DAY" {
		return seating.ScoreSum
	}
	return seating.ScoreHierarchy
}

// CourseHandler bundles repositories for course management endpoints.
type CourseHandler struct {
	Courses *repository.CourseRepo
}

func NewCourseHandler(courses *repository.CourseRepo) *CourseHandler {
	if courses == nil {
		panic("nil repository passed to NewCourseHandler")
	}
	return &CourseHandler{Courses: courses}
}

// CreateCourse handles POST /v1/courses.
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		CourseType  string `json:"course_type"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		MaxStudents uint32 `json:"max_students"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.CourseType = strings.ToUpper(strings.TrimSpace(body.CourseType))
	if body.Name == "" || body.StartDate == "" || body.EndDate == "" || body.MaxStudents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name, start_date, end_date and max_students are required",
		})
	}
	if !knownCourseTypes[body.CourseType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown course_type"})
	}
	course := &repository.Course{
		Name:        body.Name,
		CourseType:  body.CourseType,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		MaxStudents: body.MaxStudents,
	}
	if err := h.Courses.Create(c.Request().Context(), course); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create course"})
	}
	course.IsActive = true
	return c.JSON(http.StatusCreated, course)
}

// ListCourses handles GET /v1/courses. Pass ?active=true to hide finished
// courses.
func (h *CourseHandler) ListCourses(c echo.Context) error {
	activeOnly := strings.EqualFold(c.QueryParam("active"), "true")
	items, err := h.Courses.List(c.Request().Context(), activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCourse handles GET /v1/courses/:id.
func (h *CourseHandler) GetCourse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, course)
}

// UpdateCourse handles PATCH /v1/courses/:id. Absent fields keep their
// current values.
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	cur, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name        *string `json:"name"`
		CourseType  *string `json:"course_type"`
		StartDate   *string `json:"start_date"`
		EndDate     *string `json:"end_date"`
		MaxStudents *uint32 `json:"max_students"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.CourseType != nil {
		ct := strings.ToUpper(strings.TrimSpace(*body.CourseType))
		if !knownCourseTypes[ct] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown course_type"})
		}
		cur.CourseType = ct
	}
	if body.StartDate != nil {
		cur.StartDate = *body.StartDate
	}
	if body.EndDate != nil {
		cur.EndDate = *body.EndDate
	}
	if body.MaxStudents != nil {
		if *body.MaxStudents == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_students must be greater than zero"})
		}
		cur.MaxStudents = *body.MaxStudents
	}
	if body.IsActive != nil {
		cur.IsActive = *body.IsActive
	}
	if err := h.Courses.Update(ctx, cur); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}

// DeleteCourse handles DELETE /v1/courses/:id.
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Courses.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
