package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// draftMaxBytes bounds a single draft payload.
const draftMaxBytes = 64 << 10

// DraftHandler persists in-progress form state so a half-written entry
// survives navigation and restarts. Payloads are opaque JSON blobs keyed by
// logical form name.
type DraftHandler struct {
	store ports.SessionStore
}

func NewDraftHandler(store ports.SessionStore) *DraftHandler {
	return &DraftHandler{store: store}
}

// Save stores the raw request body as the draft for a form.
//
// @Summary      Save a form draft
// @Tags         drafts
// @Accept       json
// @Security     BearerAuth
// @Param        form  path  string  true  "Logical form name"
// @Success      204   "saved"
// @Failure      400   {object}  map[string]string
// @Router       /api/drafts/{form} [put]
func (h *DraftHandler) Save(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, draftMaxBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable payload")
	}
	if len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty draft")
	}
	if len(payload) > draftMaxBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "draft too large")
	}

	if err := h.store.SaveDraft(c.Request().Context(), c.Param("form"), payload); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Load returns the stored draft for a form, 404 when none exists.
//
// @Summary      Load a form draft
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        form  path  string  true  "Logical form name"
// @Success      200   "draft payload"
// @Failure      404   {object}  map[string]string
// @Router       /api/drafts/{form} [get]
func (h *DraftHandler) Load(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	payload, err := h.store.LoadDraft(c.Request().Context(), c.Param("form"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no draft")
		}
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, payload)
}

// Clear discards the stored draft for a form.
//
// @Summary      Discard a form draft
// @Tags         drafts
// @Security     BearerAuth
// @Param        form  path  string  true  "Logical form name"
// @Success      204   "cleared"
// @Router       /api/drafts/{form} [delete]
func (h *DraftHandler) Clear(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	if err := h.store.ClearDraft(c.Request().Context(), c.Param("form")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
