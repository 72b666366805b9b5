package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// CourseStore is the slice of the synchronizer the course routes need.
type CourseStore interface {
	Courses() ([]domain.Course, error)
	AddCourse(ctx context.Context, actor *ports.Session, c domain.Course) (string, error)
	UpdateCourse(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error
	DeleteCourse(ctx context.Context, actor *ports.Session, id string) error
}

type CourseHandler struct {
	store CourseStore
}

func NewCourseHandler(store CourseStore) *CourseHandler {
	return &CourseHandler{store: store}
}

type createdResponse struct {
	ID string `json:"id"`
}

// List returns every course in the current snapshot.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Course
// @Failure      401  {object}  map[string]string
// @Router       /api/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.store.Courses()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// Create adds a course.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Course  true  "Course"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var course domain.Course
	if err := c.Bind(&course); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	id, err := h.store.AddCourse(c.Request().Context(), sess, course)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// Update applies a partial field merge to a course.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Course id"
// @Param        body  body      map[string]any  true  "Fields to merge"
// @Success      204   "updated"
// @Failure      400   {object}  map[string]string
// @Router       /api/courses/{id} [patch]
func (h *CourseHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	if err := h.store.UpdateCourse(c.Request().Context(), sess, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a course.
//
// @Summary      Delete a course
// @Tags         courses
// @Security     BearerAuth
// @Param        id  path  string  true  "Course id"
// @Success      204  "deleted"
// @Router       /api/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteCourse(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bindFields decodes a partial-update body. Identity and creation stamps are
// never client-writable through a merge.
func bindFields(c echo.Context) (map[string]any, error) {
	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	delete(fields, "id")
	delete(fields, "created_at")
	if len(fields) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "empty update")
	}
	return fields, nil
}
