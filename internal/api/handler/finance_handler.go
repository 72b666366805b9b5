package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// FinanceStore is the slice of the synchronizer the financial and material
// routes need.
type FinanceStore interface {
	Financials() ([]domain.Financial, error)
	AddFinancial(ctx context.Context, actor *ports.Session, f domain.Financial) (string, error)
	UpdateFinancial(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error
	DeleteFinancial(ctx context.Context, actor *ports.Session, id string) error

	Materials() ([]domain.Material, error)
	AddMaterial(ctx context.Context, actor *ports.Session, m domain.Material) (string, error)
	UpdateMaterial(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error
	DeleteMaterial(ctx context.Context, actor *ports.Session, id string) error
}

type FinanceHandler struct {
	store FinanceStore
}

func NewFinanceHandler(store FinanceStore) *FinanceHandler {
	return &FinanceHandler{store: store}
}

// ListFinancials returns every financial record, optionally filtered by course.
//
// @Summary      List financial records
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        course_id  query     string  false  "Filter by course id"
// @Success      200        {array}   domain.Financial
// @Failure      401        {object}  map[string]string
// @Router       /api/financials [get]
func (h *FinanceHandler) ListFinancials(c echo.Context) error {
	financials, err := h.store.Financials()
	if err != nil {
		return err
	}
	if courseID := c.QueryParam("course_id"); courseID != "" {
		filtered := financials[:0]
		for _, f := range financials {
			if f.CourseID == courseID {
				filtered = append(filtered, f)
			}
		}
		financials = filtered
	}
	return c.JSON(http.StatusOK, financials)
}

// CreateFinancial adds a financial record.
//
// @Summary      Create a financial record
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Financial  true  "Financial record"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/financials [post]
func (h *FinanceHandler) CreateFinancial(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var f domain.Financial
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	id, err := h.store.AddFinancial(c.Request().Context(), sess, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// UpdateFinancial applies a partial field merge to a financial record.
//
// @Summary      Update a financial record
// @Tags         finance
// @Security     BearerAuth
// @Param        id    path  string          true  "Record id"
// @Param        body  body  map[string]any  true  "Fields to merge"
// @Success      204   "updated"
// @Router       /api/financials/{id} [patch]
func (h *FinanceHandler) UpdateFinancial(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	if err := h.store.UpdateFinancial(c.Request().Context(), sess, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteFinancial removes a financial record.
//
// @Summary      Delete a financial record
// @Tags         finance
// @Security     BearerAuth
// @Param        id  path  string  true  "Record id"
// @Success      204  "deleted"
// @Router       /api/financials/{id} [delete]
func (h *FinanceHandler) DeleteFinancial(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteFinancial(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMaterials returns every material record, optionally filtered by course.
//
// @Summary      List material deliveries
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        course_id  query     string  false  "Filter by course id"
// @Success      200        {array}   domain.Material
// @Failure      401        {object}  map[string]string
// @Router       /api/materials [get]
func (h *FinanceHandler) ListMaterials(c echo.Context) error {
	materials, err := h.store.Materials()
	if err != nil {
		return err
	}
	if courseID := c.QueryParam("course_id"); courseID != "" {
		filtered := materials[:0]
		for _, m := range materials {
			if m.CourseID == courseID {
				filtered = append(filtered, m)
			}
		}
		materials = filtered
	}
	return c.JSON(http.StatusOK, materials)
}

// CreateMaterial adds a material delivery record.
//
// @Summary      Create a material delivery
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Material  true  "Material delivery"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/materials [post]
func (h *FinanceHandler) CreateMaterial(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var m domain.Material
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	id, err := h.store.AddMaterial(c.Request().Context(), sess, m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// UpdateMaterial applies a partial field merge to a material record.
//
// @Summary      Update a material delivery
// @Tags         finance
// @Security     BearerAuth
// @Param        id    path  string          true  "Record id"
// @Param        body  body  map[string]any  true  "Fields to merge"
// @Success      204   "updated"
// @Router       /api/materials/{id} [patch]
func (h *FinanceHandler) UpdateMaterial(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	if err := h.store.UpdateMaterial(c.Request().Context(), sess, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteMaterial removes a material record.
//
// @Summary      Delete a material delivery
// @Tags         finance
// @Security     BearerAuth
// @Param        id  path  string  true  "Record id"
// @Success      204  "deleted"
// @Router       /api/materials/{id} [delete]
func (h *FinanceHandler) DeleteMaterial(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteMaterial(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
