package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/api/metrics"
	"github.com/turfworks/greenmaster/internal/core/service"
	"github.com/turfworks/greenmaster/internal/infrastructure/queue"
)

// Assistant is the slice of the AI service the routes need.
type Assistant interface {
	SummarizeCourse(ctx context.Context, courseID string) (string, error)
	Search(ctx context.Context, query string) (*service.SearchResult, error)
}

// Enqueuer accepts background summary-refresh jobs.
type Enqueuer interface {
	Enqueue(job queue.Job)
}

type AIHandler struct {
	assistant Assistant
	jobs      Enqueuer
}

func NewAIHandler(assistant Assistant, jobs Enqueuer) *AIHandler {
	return &AIHandler{assistant: assistant, jobs: jobs}
}

type summaryResponse struct {
	CourseID string `json:"course_id"`
	Summary  string `json:"summary"`
}

// Summarize generates a course overview synchronously, without persisting it.
//
// @Summary      Generate a course summary
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Course id"
// @Success      200  {object}  summaryResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/ai/courses/{id}/summary [post]
func (h *AIHandler) Summarize(c echo.Context) error {
	courseID := c.Param("id")
	summary, err := h.assistant.SummarizeCourse(c.Request().Context(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponse{CourseID: courseID, Summary: summary})
}

// Refresh queues a background regeneration of the stored course summary. The
// result lands on the course record's ai_summary field when the worker
// finishes.
//
// @Summary      Queue a course summary refresh
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Course id"
// @Success      202  "queued"
// @Failure      403  {object}  map[string]string
// @Router       /api/ai/courses/{id}/refresh [post]
func (h *AIHandler) Refresh(c echo.Context) error {
	h.jobs.Enqueue(queue.Job{CourseID: c.Param("id")})
	metrics.AIRequestsTotal.WithLabelValues("refresh", "ok").Inc()
	return c.NoContent(http.StatusAccepted)
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

// Search interprets a natural-language query into structured filters and runs
// them over the live snapshots.
//
// @Summary      Natural-language record search
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      searchRequest  true  "Query"
// @Success      200   {object}  service.SearchResult
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/ai/search [post]
func (h *AIHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.assistant.Search(c.Request().Context(), req.Query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
