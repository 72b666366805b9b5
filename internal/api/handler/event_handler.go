package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// EventStore is the slice of the synchronizer the industry-event routes need.
type EventStore interface {
	Events() ([]domain.ExternalEvent, error)
	AddEvent(ctx context.Context, actor *ports.Session, e domain.ExternalEvent) (string, error)
	UpdateEvent(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error
	DeleteEvent(ctx context.Context, actor *ports.Session, id string) error
}

type EventHandler struct {
	store EventStore
}

func NewEventHandler(store EventStore) *EventHandler {
	return &EventHandler{store: store}
}

// List returns tracked industry events.
//
// @Summary      List industry events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ExternalEvent
// @Failure      401  {object}  map[string]string
// @Router       /api/events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.store.Events()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Create records an industry event.
//
// @Summary      Create an industry event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.ExternalEvent  true  "Event"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var e domain.ExternalEvent
	if err := c.Bind(&e); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	id, err := h.store.AddEvent(c.Request().Context(), sess, e)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// Update applies a partial field merge to an industry event.
//
// @Summary      Update an industry event
// @Tags         events
// @Security     BearerAuth
// @Param        id    path  string          true  "Event id"
// @Param        body  body  map[string]any  true  "Fields to merge"
// @Success      204   "updated"
// @Router       /api/events/{id} [patch]
func (h *EventHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	if err := h.store.UpdateEvent(c.Request().Context(), sess, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an industry event.
//
// @Summary      Delete an industry event
// @Tags         events
// @Security     BearerAuth
// @Param        id  path  string  true  "Event id"
// @Success      204  "deleted"
// @Router       /api/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteEvent(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
