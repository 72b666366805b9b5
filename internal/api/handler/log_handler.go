package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// LogStore is the slice of the synchronizer the visit-log routes need.
type LogStore interface {
	VisibleLogs(caps domain.Capabilities) ([]domain.VisitLog, error)
	AddLog(ctx context.Context, actor *ports.Session, l domain.VisitLog) (string, error)
	UpdateLog(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error
	DeleteLog(ctx context.Context, actor *ports.Session, id string) error
}

type LogHandler struct {
	store LogStore
}

func NewLogHandler(store LogStore) *LogHandler {
	return &LogHandler{store: store}
}

// List returns the visit logs visible to the caller. Roles without full data
// access only see logs that flagged issues.
//
// @Summary      List visit logs (restricted roles see issue logs only)
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.VisitLog
// @Failure      401  {object}  map[string]string
// @Router       /api/logs [get]
func (h *LogHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	logs, err := h.store.VisibleLogs(sess.Caps)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}

// Create records a field visit. The author is always the session user,
// regardless of what the payload claims.
//
// @Summary      Create a visit log
// @Tags         logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.VisitLog  true  "Visit log"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/logs [post]
func (h *LogHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var l domain.VisitLog
	if err := c.Bind(&l); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	l.AuthorID = sess.User.ID
	l.Author = sess.User.Name

	id, err := h.store.AddLog(c.Request().Context(), sess, l)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// Update applies a partial field merge to a visit log.
//
// @Summary      Update a visit log
// @Tags         logs
// @Security     BearerAuth
// @Param        id    path  string          true  "Log id"
// @Param        body  body  map[string]any  true  "Fields to merge"
// @Success      204   "updated"
// @Router       /api/logs/{id} [patch]
func (h *LogHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	if err := h.store.UpdateLog(c.Request().Context(), sess, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a visit log.
//
// @Summary      Delete a visit log
// @Tags         logs
// @Security     BearerAuth
// @Param        id  path  string  true  "Log id"
// @Success      204  "deleted"
// @Router       /api/logs/{id} [delete]
func (h *LogHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteLog(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
