package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// AdminStore is the slice of the synchronizer the administrative routes need.
type AdminStore interface {
	Users() ([]domain.User, error)
	UpdateUser(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error
	DeleteUser(ctx context.Context, actor *ports.Session, id string) error
	AuditLog() ([]domain.AuditEvent, error)
}

type AdminHandler struct {
	store AdminStore
}

func NewAdminHandler(store AdminStore) *AdminHandler {
	return &AdminHandler{store: store}
}

// ListUsers returns every registered account, including pending ones.
//
// @Summary      List user accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.store.Users()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

type updateUserRequest struct {
	Role   string `json:"role,omitempty" validate:"omitempty,oneof=admin manager staff viewer"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
}

// UpdateUser changes an account's role or approval status. This is the
// approval path for pending registrations; active sessions for the user pick
// the change up immediately.
//
// @Summary      Update a user's role or status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "User id"
// @Param        body  body  updateUserRequest  true  "Role and/or status"
// @Success      204   "updated"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fields := map[string]any{}
	if req.Role != "" {
		fields["role"] = req.Role
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty update")
	}

	if err := h.store.UpdateUser(c.Request().Context(), sess, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes an account. Any live session for the user keeps its
// last-known profile until logout.
//
// @Summary      Delete a user account
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteUser(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AuditLog returns the append-only audit trail.
//
// @Summary      Read the audit log
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.AuditEvent
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/audit [get]
func (h *AdminHandler) AuditLog(c echo.Context) error {
	events, err := h.store.AuditLog()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
