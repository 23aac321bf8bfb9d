package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dhammaseva/center-console/internal/repository"
)

// PurchaseHandler serves the small-purchase ledger kept per participant
// (laundry tokens, soap, books), settled when the student departs.
type PurchaseHandler struct {
	Participants *repository.ParticipantRepo
	Purchases    *repository.PurchaseRepo
}

func NewPurchaseHandler(participants *repository.ParticipantRepo, purchases *repository.PurchaseRepo) *PurchaseHandler {
	if participants == nil || purchases == nil {
		panic("nil repository passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{Participants: participants, Purchases: purchases}
}

// AddPurchase handles POST /v1/participants/:id/purchases.
func (h *PurchaseHandler) AddPurchase(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.Participants.GetByPublicID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Item        string `json:"item"`
		AmountCents uint32 `json:"amount_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Item = strings.TrimSpace(body.Item)
	if body.Item == "" || body.AmountCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item and amount_cents are required"})
	}
	purchase := &repository.Purchase{
		ParticipantID: p.ID,
		Item:          body.Item,
		AmountCents:   body.AmountCents,
	}
	if err := h.Purchases.Create(ctx, purchase); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record purchase"})
	}
	return c.JSON(http.StatusCreated, purchase)
}

// ListPurchases handles GET /v1/participants/:id/purchases and returns the
// ledger plus the running total.
func (h *PurchaseHandler) ListPurchases(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.Participants.GetByPublicID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Purchases.ListByParticipant(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	total, err := h.Purchases.TotalByParticipant(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":       items,
		"total_cents": total,
	})
}
