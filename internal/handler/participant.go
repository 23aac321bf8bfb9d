package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dhammaseva/center-console/internal/queue"
	"github.com/dhammaseva/center-console/internal/repository"
	"github.com/dhammaseva/center-console/internal/seating"
	queue_publisher "github.com/dhammaseva/center-console/internal/service"
)

// ParticipantHandler bundles repositories for registration-desk endpoints.
type ParticipantHandler struct {
	Courses      *repository.CourseRepo
	Participants *repository.ParticipantRepo
}

func NewParticipantHandler(courses *repository.CourseRepo, participants *repository.ParticipantRepo) *ParticipantHandler {
	if courses == nil || participants == nil {
		panic("nil repository passed to NewParticipantHandler")
	}
	return &ParticipantHandler{Courses: courses, Participants: participants}
}

// participantResp shapes a roster row for clients. Seat and arrival fields
// are flattened out of their nullable columns.
type participantResp struct {
	ID               string  `json:"id"`
	CourseID         uint64  `json:"course_id"`
	FullName         string  `json:"full_name"`
	Gender           string  `json:"gender"`
	ConfirmationCode string  `json:"confirmation_code"`
	Age              uint32  `json:"age"`
	CoursesHistory   string  `json:"courses_history"`
	SpecialSeating   string  `json:"special_seating"`
	SeatLabel        *string `json:"seat_label"`
	SeatLocked       bool    `json:"seat_locked"`
	Status           string  `json:"status"`
	ArrivedAt        *string `json:"arrived_at"`
}

func toParticipantResp(p repository.Participant) participantResp {
	resp := participantResp{
		ID:               p.PublicID,
		CourseID:         p.CourseID,
		FullName:         p.FullName,
		Gender:           p.Gender,
		ConfirmationCode: p.ConfirmationCode,
		Age:              p.Age,
		CoursesHistory:   p.CoursesHistory,
		SpecialSeating:   p.SpecialSeating,
		SeatLocked:       p.SeatLocked,
		Status:           p.Status,
	}
	if p.SeatLabel.Valid {
		s := p.SeatLabel.String
		resp.SeatLabel = &s
	}
	if p.ArrivedAt.Valid {
		t := p.ArrivedAt.Time.UTC().Format(time.RFC3339)
		resp.ArrivedAt = &t
	}
	return resp
}

var knownSpecialSeating = map[string]bool{
	string(seating.SeatNone):     true,
	string(seating.SeatChowky):   true,
	string(seating.SeatChair):    true,
	string(seating.SeatBackRest): true,
}

// RegisterParticipant handles POST /v1/courses/:id/participants.
func (h *ParticipantHandler) RegisterParticipant(c echo.Context) error {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	var body struct {
		FullName         string `json:"full_name"`
		Gender           string `json:"gender"`
		ConfirmationCode string `json:"confirmation_code"`
		Age              uint32 `json:"age"`
		CoursesHistory   string `json:"courses_history"`
		SpecialSeating   string `json:"special_seating"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.FullName = strings.TrimSpace(body.FullName)
	gender := strings.ToUpper(strings.TrimSpace(body.Gender))
	code := strings.ToUpper(strings.TrimSpace(body.ConfirmationCode))
	if body.FullName == "" || code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name and confirmation_code are required"})
	}
	if gender != string(seating.Male) && gender != string(seating.Female) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE or FEMALE"})
	}
	special := strings.ToUpper(strings.TrimSpace(body.SpecialSeating))
	if special == "" {
		special = string(seating.SeatNone)
	}
	if !knownSpecialSeating[special] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown special_seating"})
	}

	p := &repository.Participant{
		CourseID:         courseID,
		FullName:         body.FullName,
		Gender:           gender,
		ConfirmationCode: code,
		Age:              body.Age,
		CoursesHistory:   body.CoursesHistory,
		SpecialSeating:   special,
		Status:           seating.StatusAttending,
	}
	if err := h.Participants.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "confirmation code already registered on this course"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not register participant"})
	}
	return c.JSON(http.StatusCreated, toParticipantResp(*p))
}

// ListRoster handles GET /v1/courses/:id/participants.
func (h *ParticipantHandler) ListRoster(c echo.Context) error {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	items, err := h.Participants.ListByCourse(c.Request().Context(), courseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]participantResp, 0, len(items))
	for _, p := range items {
		out = append(out, toParticipantResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetParticipant handles GET /v1/participants/:id.
func (h *ParticipantHandler) GetParticipant(c echo.Context) error {
	p, err := h.Participants.GetByPublicID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toParticipantResp(*p))
}

// UpdateParticipant handles PATCH /v1/participants/:id. Registration fields
// only; seat writes go through the seating endpoints.
func (h *ParticipantHandler) UpdateParticipant(c echo.Context) error {
	ctx := c.Request().Context()
	cur, err := h.Participants.GetByPublicID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		FullName         *string `json:"full_name"`
		Gender           *string `json:"gender"`
		ConfirmationCode *string `json:"confirmation_code"`
		Age              *uint32 `json:"age"`
		CoursesHistory   *string `json:"courses_history"`
		SpecialSeating   *string `json:"special_seating"`
		Status           *string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.FullName != nil && strings.TrimSpace(*body.FullName) != "" {
		cur.FullName = strings.TrimSpace(*body.FullName)
	}
	if body.Gender != nil {
		g := strings.ToUpper(strings.TrimSpace(*body.Gender))
		if g != string(seating.Male) && g != string(seating.Female) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE or FEMALE"})
		}
		cur.Gender = g
	}
	if body.ConfirmationCode != nil && strings.TrimSpace(*body.ConfirmationCode) != "" {
		cur.ConfirmationCode = strings.ToUpper(strings.TrimSpace(*body.ConfirmationCode))
	}
	if body.Age != nil {
		cur.Age = *body.Age
	}
	if body.CoursesHistory != nil {
		cur.CoursesHistory = *body.CoursesHistory
	}
	if body.SpecialSeating != nil {
		s := strings.ToUpper(strings.TrimSpace(*body.SpecialSeating))
		if !knownSpecialSeating[s] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown special_seating"})
		}
		cur.SpecialSeating = s
	}
	if body.Status != nil {
		cur.Status = strings.ToUpper(strings.TrimSpace(*body.Status))
	}
	if err := h.Participants.Update(ctx, cur); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toParticipantResp(*cur))
}

// Arrive handles POST /v1/participants/:id/arrive: the gate check-in stamp.
// Idempotent; the first arrival time wins. Publishes a gate.checkin event
// for the operations log; publish failures never block the gate.
func (h *ParticipantHandler) Arrive(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.Participants.GetByPublicID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	arrived, err := h.Participants.SetArrived(ctx, p.PublicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishGateCheckIn(pubCtx, queue.GateCheckInEvent{
			ParticipantID: p.PublicID,
			FullName:      p.FullName,
			CourseID:      p.CourseID,
			ArrivedAt:     arrived.UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"id":         p.PublicID,
		"arrived_at": arrived.UTC().Format(time.RFC3339),
	})
}

// SetSeatLock handles PATCH /v1/participants/:id/seat-lock with body
// {"locked": bool}. Locking pins the current seat against auto-assignment.
func (h *ParticipantHandler) SetSeatLock(c echo.Context) error {
	var body struct {
		Locked *bool `json:"locked"`
	}
	if err := c.Bind(&body); err != nil || body.Locked == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locked is required"})
	}
	err := h.Participants.SetLocked(c.Request().Context(), c.Param("id"), *body.Locked)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "seat_locked": *body.Locked})
}

// DeleteParticipant handles DELETE /v1/participants/:id.
func (h *ParticipantHandler) DeleteParticipant(c echo.Context) error {
	if err := h.Participants.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "checked-in participants cannot be deleted, cancel them instead"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
