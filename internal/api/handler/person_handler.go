package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// PersonStore is the slice of the synchronizer the people routes need.
type PersonStore interface {
	People() ([]domain.Person, error)
	UpsertPerson(ctx context.Context, actor *ports.Session, p domain.Person) (string, bool, error)
	UpdatePerson(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error
	DeletePerson(ctx context.Context, actor *ports.Session, id string) error
}

type PersonHandler struct {
	store PersonStore
}

func NewPersonHandler(store PersonStore) *PersonHandler {
	return &PersonHandler{store: store}
}

type upsertPersonResponse struct {
	ID     string `json:"id"`
	Merged bool   `json:"merged"`
}

// List returns every contact in the current snapshot.
//
// @Summary      List people
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Person
// @Failure      401  {object}  map[string]string
// @Router       /api/people [get]
func (h *PersonHandler) List(c echo.Context) error {
	people, err := h.store.People()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, people)
}

// Upsert creates a contact, or merges into an existing one whose normalized
// name matches. The response says which happened.
//
// @Summary      Create or merge a contact
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Person  true  "Contact"
// @Success      201   {object}  upsertPersonResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/people [post]
func (h *PersonHandler) Upsert(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var p domain.Person
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	id, merged, err := h.store.UpsertPerson(c.Request().Context(), sess, p)
	if err != nil {
		return err
	}
	status := http.StatusCreated
	if merged {
		status = http.StatusOK
	}
	return c.JSON(status, upsertPersonResponse{ID: id, Merged: merged})
}

// Update applies a partial field merge to a contact.
//
// @Summary      Update a contact
// @Tags         people
// @Security     BearerAuth
// @Param        id    path  string          true  "Person id"
// @Param        body  body  map[string]any  true  "Fields to merge"
// @Success      204   "updated"
// @Router       /api/people/{id} [patch]
func (h *PersonHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	if err := h.store.UpdatePerson(c.Request().Context(), sess, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a contact.
//
// @Summary      Delete a contact
// @Tags         people
// @Security     BearerAuth
// @Param        id  path  string  true  "Person id"
// @Success      204  "deleted"
// @Router       /api/people/{id} [delete]
func (h *PersonHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.store.DeletePerson(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
