package handler

import (
	"context"
	"database/sql"
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

// SeatingHandler bundles the repositories behind the seating workspace: it
// loads a fresh roster snapshot and the saved geometry, runs the pure
// engine, and writes the proposed seats back one participant at a time.
// Last write wins; there is no optimistic concurrency token, so two
// operators racing each other overwrite silently. That is the documented
// contract, inherited from the console this service backs.
type SeatingHandler struct {
	Courses      *repository.CourseRepo
	Participants *repository.ParticipantRepo
	Geometries   *repository.GeometryRepo
}

func NewSeatingHandler(courses *repository.CourseRepo, participants *repository.ParticipantRepo, geometries *repository.GeometryRepo) *SeatingHandler {
	if courses == nil || participants == nil || geometries == nil {
		panic("nil repository passed to NewSeatingHandler")
	}
	return &SeatingHandler{Courses: courses, Participants: participants, Geometries: geometries}
}

// toStudent converts a roster row into the engine's input record.
func toStudent(p repository.Participant) seating.Student {
	s := seating.Student{
		ID:               p.PublicID,
		FullName:         p.FullName,
		Gender:           seating.Gender(p.Gender),
		ConfirmationCode: p.ConfirmationCode,
		Age:              int(p.Age),
		CoursesHistory:   p.CoursesHistory,
		SpecialSeating:   seating.SpecialSeating(p.SpecialSeating),
		SeatLocked:       p.SeatLocked,
		Status:           p.Status,
	}
	if p.SeatLabel.Valid {
		s.CurrentSeat = p.SeatLabel.String
	}
	return s
}

// rosterSplit partitions one gender's roster ahead of an assignment run:
// the engine's input, the stale seats to clear before writing, and the
// labels the run must not hand out.
type rosterSplit struct {
	students []seating.Student
	stale    []seating.Student
	reserved map[string]bool
}

// splitRoster sorts each roster row into exactly one bucket. Attending
// service staff are invisible to the run: they are never seated, never
// unseated, and any label they occupy stays off the pools. Non-attending
// participants vacate their seat, locked or not.
func splitRoster(roster []repository.Participant, gender string) rosterSplit {
	split := rosterSplit{reserved: make(map[string]bool)}
	for _, p := range roster {
		if p.Gender != gender {
			continue
		}
		s := toStudent(p)
		switch {
		case s.Eligible():
			split.students = append(split.students, s)
			if s.CurrentSeat != "" && !s.SeatLocked {
				split.stale = append(split.stale, s)
			}
		case s.Status == seating.StatusAttending:
			// Service staff hold whatever seat an operator gave them.
			if s.CurrentSeat != "" {
				split.reserved[s.CurrentSeat] = true
			}
		case s.CurrentSeat != "":
			// Cancelled or no-show participants vacate their seat even if
			// it was locked; a withdrawn body does not hold a cushion.
			split.stale = append(split.stale, s)
		}
	}
	return split
}

// withoutReserved drops reserved labels from a seat pool.
func withoutReserved(labels []string, reserved map[string]bool) []string {
	if len(reserved) == 0 {
		return labels
	}
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !reserved[l] {
			out = append(out, l)
		}
	}
	return out
}

func parseGenderParam(raw string) (string, bool) {
	g := strings.ToUpper(strings.TrimSpace(raw))
	if g == string(seating.Male) || g == string(seating.Female) {
		return g, true
	}
	return "", false
}

// GetGeometry handles GET /v1/courses/:id/geometry/:gender.
func (h *SeatingHandler) GetGeometry(c echo.Context) error {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	gender, ok := parseGenderParam(c.Param("gender"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE or FEMALE"})
	}
	g, err := h.Geometries.Get(c.Request().Context(), courseID, gender)
	if err != nil {
		if errors.Is(err, repository.ErrGeometryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "geometry not configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, g)
}

// PutGeometry handles PUT /v1/courses/:id/geometry/:gender. The layout is
// validated here, at edit time; assignment never runs against a geometry
// this endpoint did not accept.
func (h *SeatingHandler) PutGeometry(c echo.Context) error {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	gender, ok := parseGenderParam(c.Param("gender"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE or FEMALE"})
	}
	ctx := c.Request().Context()
	if _, err := h.Courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		StandardCols int `json:"standard_cols"`
		SpecialCols  int `json:"special_cols"`
		Rows         int `json:"rows"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	layout := seating.Geometry{StandardCols: body.StandardCols, SpecialCols: body.SpecialCols, Rows: body.Rows}
	if err := layout.Validate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	g := &repository.HallGeometry{
		CourseID:     courseID,
		Gender:       gender,
		StandardCols: layout.StandardCols,
		SpecialCols:  layout.SpecialCols,
		Rows:         layout.Rows,
	}
	if err := h.Geometries.Upsert(ctx, g); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, g)
}

// AutoScale handles GET /v1/courses/:id/seating/auto-scale?gender=MALE.
// Returns a geometry proposal sized from the current roster; nothing is
// persisted until the operator saves it through PutGeometry.
func (h *SeatingHandler) AutoScale(c echo.Context) error {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	gender, ok := parseGenderParam(c.QueryParam("gender"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE or FEMALE"})
	}
	ctx := c.Request().Context()
	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	roster, err := h.Participants.ListByCourse(ctx, courseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var specialCount, normalCount int
	for _, p := range roster {
		s := toStudent(p)
		if p.Gender != gender || !s.Eligible() {
			continue
		}
		if s.WantsSpecialSeat() {
			specialCount++
		} else {
			normalCount++
		}
	}
	proposal := seating.AutoScale(specialCount, normalCount, int(course.MaxStudents))
	return c.JSON(http.StatusOK, echo.Map{
		"gender":        gender,
		"special_count": specialCount,
		"normal_count":  normalCount,
		"proposal":      proposal,
	})
}

// genderAssignment is one gender's slice of an assignment run response.
type genderAssignment struct {
	Gender      string               `json:"gender"`
	Assignments []seating.Assignment `json:"assignments"`
	Unassigned  int                  `json:"unassigned"`
}

// RunAssignment handles POST /v1/courses/:id/seating/assign. It runs the
// engine once per gender (or for a single ?gender=), persists every
// proposed seat, and reports the unassigned count per gender — capacity
// exhaustion is part of the response, never a silent drop.
func (h *SeatingHandler) RunAssignment(c echo.Context) error {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	genders := []string{string(seating.Male), string(seating.Female)}
	if raw := c.QueryParam("gender"); raw != "" {
		g, ok := parseGenderParam(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE or FEMALE"})
		}
		genders = []string{g}
	}

	ctx := c.Request().Context()
	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	mode := ScoreModeForCourse(course.CourseType)

	// Fresh snapshot for every run; the engine trusts it completely.
	roster, err := h.Participants.ListByCourse(ctx, courseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	var results []genderAssignment
	for _, gender := range genders {
		layout, err := h.Geometries.Get(ctx, courseID, gender)
		if err != nil {
			if errors.Is(err, repository.ErrGeometryNotFound) {
				return c.JSON(http.StatusConflict, echo.Map{
					"error": "geometry not configured for " + strings.ToLower(gender),
				})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		geo := seating.Geometry{
			StandardCols: layout.StandardCols,
			SpecialCols:  layout.SpecialCols,
			Rows:         layout.Rows,
		}

		split := splitRoster(roster, gender)

		res := seating.Assign(split.students,
			withoutReserved(geo.StandardLabels(), split.reserved),
			withoutReserved(geo.SpecialLabels(), split.reserved), mode)

		// Clear every stale seat first so the fresh packing cannot collide
		// with old labels under the uniqueness key.
		for _, s := range split.stale {
			if err := h.Participants.UpdateSeat(ctx, s.ID, sql.NullString{}, false); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat write failed"})
			}
		}
		for _, a := range res.Assignments {
			seat := sql.NullString{String: a.Seat, Valid: true}
			if err := h.Participants.UpdateSeat(ctx, a.StudentID, seat, false); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat write failed"})
			}
		}

		results = append(results, genderAssignment{
			Gender:      gender,
			Assignments: res.Assignments,
			Unassigned:  res.Unassigned,
		})
	}

	operatorID, _ := getUserID(c)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ev := queue.SeatingAssignedEvent{
			CourseID:   courseID,
			CourseName: course.Name,
			OperatorID: operatorID,
			AssignedAt: time.Now().UTC().Format(time.RFC3339),
		}
		for _, r := range results {
			ev.Runs = append(ev.Runs, queue.SeatingRun{
				Gender:     r.Gender,
				Assigned:   len(r.Assignments),
				Unassigned: r.Unassigned,
			})
		}
		_ = queue_publisher.PublishSeatingAssigned(pubCtx, ev)
	}()

	return c.JSON(http.StatusOK, echo.Map{"course_id": courseID, "results": results})
}

// SwapSeats handles POST /v1/courses/:id/seating/swap. The operator picks
// two labels inside one gender's chart; occupants are resolved from the
// current roster and the resulting updates applied in order.
func (h *SeatingHandler) SwapSeats(c echo.Context) error {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	var body struct {
		SeatA struct {
			Label  string `json:"label"`
			Gender string `json:"gender"`
		} `json:"seat_a"`
		SeatB struct {
			Label  string `json:"label"`
			Gender string `json:"gender"`
		} `json:"seat_b"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.SeatA.Label) == "" || strings.TrimSpace(body.SeatB.Label) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "both seat labels are required"})
	}
	genderA, okA := parseGenderParam(body.SeatA.Gender)
	genderB, okB := parseGenderParam(body.SeatB.Gender)
	if !okA || !okB {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE or FEMALE"})
	}

	ctx := c.Request().Context()
	seatA, err := h.resolveSeat(ctx, courseID, genderA, strings.TrimSpace(body.SeatA.Label))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	seatB, err := h.resolveSeat(ctx, courseID, genderB, strings.TrimSpace(body.SeatB.Label))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	updates, err := seating.Swap(seatA, seatB)
	if err != nil {
		if errors.Is(err, seating.ErrGenderMismatch) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cannot swap seats across genders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "swap failed"})
	}

	// Apply in order: the sentinel step keeps every intermediate write
	// unique, so a mid-sequence failure leaves at worst a student parked on
	// the sentinel label, visible and fixable, never two students on one seat.
	for _, u := range updates {
		seat := sql.NullString{String: u.Seat, Valid: true}
		if err := h.Participants.UpdateSeat(ctx, u.StudentID, seat, u.Lock); err != nil {
			if errors.Is(err, repository.ErrSeatTaken) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "seat changed underneath the swap, reload and retry"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat write failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"updates": updates})
}

// resolveSeat looks up a label's occupant; an empty seat resolves with a
// nil occupant.
func (h *SeatingHandler) resolveSeat(ctx context.Context, courseID uint64, gender, label string) (seating.Seat, error) {
	seat := seating.Seat{Label: label, Gender: seating.Gender(gender)}
	p, err := h.Participants.FindBySeat(ctx, courseID, gender, label)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return seat, nil
		}
		return seat, err
	}
	occupant := toStudent(*p)
	seat.Occupant = &occupant
	return seat, nil
}
