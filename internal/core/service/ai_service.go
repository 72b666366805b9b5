package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/api/metrics"
	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// AIService builds prompts over the current snapshots and interprets the
// generated output. Retry policy lives in the Generator implementation.
type AIService struct {
	sync *Synchronizer
	gen  ports.Generator
	log  zerolog.Logger
}

func NewAIService(syncer *Synchronizer, gen ports.Generator, log zerolog.Logger) *AIService {
	return &AIService{
		sync: syncer,
		gen:  gen,
		log:  log.With().Str("component", "ai_service").Logger(),
	}
}

// courseContext is the serialized record bundle handed to the model.
type courseContext struct {
	Course     domain.Course      `json:"course"`
	Logs       []domain.VisitLog  `json:"visit_logs"`
	People     []domain.Person    `json:"people"`
	Financials []domain.Financial `json:"financials"`
	Materials  []domain.Material  `json:"materials"`
}

// SummarizeCourse generates a fresh operational summary for one course from
// its visit logs, contacts, financials and material deliveries.
func (s *AIService) SummarizeCourse(ctx context.Context, courseID string) (string, error) {
	bundle, err := s.collectCourse(courseID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", err
	}

	out, err := s.gen.Generate(ctx, ports.GenerateRequest{
		Prompt: "Summarize the current state of this golf course account for a field sales team: " +
			"relationship health, open issues from recent visits, and financial standing. " +
			"Four sentences at most.",
		Context: string(data),
	})
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("summarize", "error").Inc()
		return "", err
	}
	metrics.AIRequestsTotal.WithLabelValues("summarize", "ok").Inc()
	return strings.TrimSpace(out), nil
}

func (s *AIService) collectCourse(courseID string) (*courseContext, error) {
	courses, err := s.sync.Courses()
	if err != nil {
		return nil, err
	}
	var course *domain.Course
	for i := range courses {
		if courses[i].ID == courseID {
			course = &courses[i]
			break
		}
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	}

	bundle := &courseContext{Course: *course}

	logs, err := s.sync.Logs()
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		if l.CourseID == courseID {
			bundle.Logs = append(bundle.Logs, l)
		}
	}

	people, err := s.sync.People()
	if err != nil {
		return nil, err
	}
	for _, p := range people {
		if p.CourseID == courseID {
			bundle.People = append(bundle.People, p)
		}
	}

	financials, err := s.sync.Financials()
	if err != nil {
		return nil, err
	}
	for _, f := range financials {
		if f.CourseID == courseID {
			bundle.Financials = append(bundle.Financials, f)
		}
	}

	materials, err := s.sync.Materials()
	if err != nil {
		return nil, err
	}
	for _, m := range materials {
		if m.CourseID == courseID {
			bundle.Materials = append(bundle.Materials, m)
		}
	}

	return bundle, nil
}

// SearchResult carries the interpreted filters and the matching records.
type SearchResult struct {
	Target  string            `json:"target"`
	Filters map[string]any    `json:"filters"`
	Logs    []domain.VisitLog `json:"logs,omitempty"`
	People  []domain.Person   `json:"people,omitempty"`
	Courses []domain.Course   `json:"courses,omitempty"`
}

// searchShape declares the structured filter the model must extract from a
// natural-language query.
func searchShape() *ports.Shape {
	return &ports.Shape{Fields: []ports.ShapeField{
		{Name: "target", Type: ports.FieldString, Enum: []string{"logs", "people", "courses"}, Default: "logs"},
		{Name: "course_name", Type: ports.FieldString},
		{Name: "person_name", Type: ports.FieldString},
		{Name: "keyword", Type: ports.FieldString},
		{Name: "date_from", Type: ports.FieldString},
		{Name: "date_to", Type: ports.FieldString},
	}}
}

// Search turns a natural-language query into a structured filter via the
// model, then executes that filter over the in-memory snapshots.
func (s *AIService) Search(ctx context.Context, query string) (*SearchResult, error) {
	shape := searchShape()
	raw, err := s.gen.Generate(ctx, ports.GenerateRequest{
		Prompt: "Extract search filters from this query about golf course field data: " + query,
		Shape:  shape,
	})
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}
	filters, err := shape.Parse(raw)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}
	metrics.AIRequestsTotal.WithLabelValues("search", "ok").Inc()

	result := &SearchResult{
		Target:  stringField(filters, "target"),
		Filters: filters,
	}
	if result.Target == "" {
		result.Target = "logs"
	}

	switch result.Target {
	case "people":
		people, err := s.sync.People()
		if err != nil {
			return nil, err
		}
		for _, p := range people {
			if matchPerson(p, filters) {
				result.People = append(result.People, p)
			}
		}
	case "courses":
		courses, err := s.sync.Courses()
		if err != nil {
			return nil, err
		}
		for _, c := range courses {
			if matchCourse(c, filters) {
				result.Courses = append(result.Courses, c)
			}
		}
	default:
		logs, err := s.sync.Logs()
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			if matchLog(l, filters) {
				result.Logs = append(result.Logs, l)
			}
		}
	}
	return result, nil
}

func matchLog(l domain.VisitLog, filters map[string]any) bool {
	if v := stringField(filters, "course_name"); v != "" && !containsFold(l.CourseName, v) {
		return false
	}
	if v := stringField(filters, "person_name"); v != "" && !containsFold(l.Content, v) {
		return false
	}
	if v := stringField(filters, "keyword"); v != "" {
		if !containsFold(l.Content, v) && !containsFold(strings.Join(l.Issues, " "), v) {
			return false
		}
	}
	// ISO dates compare correctly as strings
	if v := stringField(filters, "date_from"); v != "" && l.VisitDate < v {
		return false
	}
	if v := stringField(filters, "date_to"); v != "" && l.VisitDate > v {
		return false
	}
	return true
}

func matchPerson(p domain.Person, filters map[string]any) bool {
	if v := stringField(filters, "course_name"); v != "" && !containsFold(p.CourseName, v) {
		return false
	}
	if v := stringField(filters, "person_name"); v != "" && !containsFold(p.Name, v) {
		return false
	}
	if v := stringField(filters, "keyword"); v != "" {
		if !containsFold(p.Notes, v) && !containsFold(p.Title, v) && !containsFold(p.Name, v) {
			return false
		}
	}
	return true
}

func matchCourse(c domain.Course, filters map[string]any) bool {
	if v := stringField(filters, "course_name"); v != "" && !containsFold(c.Name, v) {
		return false
	}
	if v := stringField(filters, "keyword"); v != "" {
		if !containsFold(c.Description, v) && !containsFold(c.Memo, v) && !containsFold(c.Region, v) {
			return false
		}
	}
	return true
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
