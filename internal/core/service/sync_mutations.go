package service

import (
	"context"
	"fmt"

	"github.com/turfworks/greenmaster/internal/api/metrics"
	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// entityMeta binds a collection to its audit target kind.
type entityMeta struct {
	collection string
	targetKind string
}

var (
	courseMeta    = entityMeta{domain.CollectionCourses, domain.TargetCourse}
	logMeta       = entityMeta{domain.CollectionLogs, domain.TargetLog}
	personMeta    = entityMeta{domain.CollectionPeople, domain.TargetPerson}
	userMeta      = entityMeta{domain.CollectionUsers, domain.TargetUser}
	eventMeta     = entityMeta{domain.CollectionEvents, domain.TargetEvent}
	financialMeta = entityMeta{domain.CollectionFinancials, domain.TargetFinancial}
	materialMeta  = entityMeta{domain.CollectionMaterials, domain.TargetMaterial}
)

// createEntity validates, writes, and audits one new record. The returned id
// is the store-assigned identity. Callers must not assume the snapshot
// reflects the write on return; it arrives via the subscription.
func (s *Synchronizer) createEntity(ctx context.Context, actor *ports.Session, meta entityMeta, entity any, displayName string) (string, error) {
	if err := s.validate.Struct(entity); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	doc, err := domain.Encode(entity)
	if err != nil {
		return "", err
	}
	if v, _ := doc["created_at"].(string); v == "" {
		doc["created_at"] = domain.NowStamp()
	}

	id, err := s.store.Save(ctx, meta.collection, doc)
	if err != nil {
		return "", err
	}
	metrics.MutationsTotal.WithLabelValues(meta.collection, domain.ActionCreate).Inc()

	if err := s.Audit(ctx, actor, domain.ActionCreate, meta.targetKind, displayName, ""); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Synchronizer) updateEntity(ctx context.Context, actor *ports.Session, meta entityMeta, id string, fields map[string]any) error {
	name := s.displayName(meta.collection, id)
	if err := s.store.Update(ctx, meta.collection, id, fields); err != nil {
		return err
	}
	metrics.MutationsTotal.WithLabelValues(meta.collection, domain.ActionUpdate).Inc()
	return s.Audit(ctx, actor, domain.ActionUpdate, meta.targetKind, name, "")
}

func (s *Synchronizer) deleteEntity(ctx context.Context, actor *ports.Session, meta entityMeta, id string) error {
	name := s.displayName(meta.collection, id)
	if err := s.store.Delete(ctx, meta.collection, id); err != nil {
		return err
	}
	metrics.MutationsTotal.WithLabelValues(meta.collection, domain.ActionDelete).Inc()
	return s.Audit(ctx, actor, domain.ActionDelete, meta.targetKind, name, "")
}

// ── Courses ──────────────────────────────────────────────────────────────────

func (s *Synchronizer) AddCourse(ctx context.Context, actor *ports.Session, c domain.Course) (string, error) {
	return s.createEntity(ctx, actor, courseMeta, c, c.Name)
}

func (s *Synchronizer) UpdateCourse(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error {
	return s.updateEntity(ctx, actor, courseMeta, id, fields)
}

func (s *Synchronizer) DeleteCourse(ctx context.Context, actor *ports.Session, id string) error {
	return s.deleteEntity(ctx, actor, courseMeta, id)
}

// ApplyCourseSummary records a freshly generated AI overview on a course.
// System action, no actor, so deliberately unaudited.
func (s *Synchronizer) ApplyCourseSummary(ctx context.Context, courseID, summary string) error {
	return s.store.Update(ctx, domain.CollectionCourses, courseID, map[string]any{
		"ai_summary": summary,
	})
}

// ── Visit logs ───────────────────────────────────────────────────────────────

func (s *Synchronizer) AddLog(ctx context.Context, actor *ports.Session, l domain.VisitLog) (string, error) {
	return s.createEntity(ctx, actor, logMeta, l, l.CourseName)
}

func (s *Synchronizer) UpdateLog(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error {
	return s.updateEntity(ctx, actor, logMeta, id, fields)
}

func (s *Synchronizer) DeleteLog(ctx context.Context, actor *ports.Session, id string) error {
	return s.deleteEntity(ctx, actor, logMeta, id)
}

// ── People ───────────────────────────────────────────────────────────────────

// UpsertPerson creates a person, unless an existing record's normalized name
// matches the candidate's, in which case the existing record is merged in
// place and audited as a merge rather than a create. Person identity is
// human-entered free text; this heuristic reduces near-duplicate records but
// cannot eliminate false-positive merges.
func (s *Synchronizer) UpsertPerson(ctx context.Context, actor *ports.Session, p domain.Person) (id string, merged bool, err error) {
	if err := s.validate.Struct(p); err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	existing, err := s.People()
	if err != nil {
		return "", false, err
	}
	target := p.NormalizedName()
	for _, candidate := range existing {
		if candidate.NormalizedName() != target {
			continue
		}
		doc, err := domain.Encode(p)
		if err != nil {
			return "", false, err
		}
		delete(doc, domain.FieldID)
		if err := s.store.Update(ctx, domain.CollectionPeople, candidate.ID, map[string]any(doc)); err != nil {
			return "", false, err
		}
		metrics.MutationsTotal.WithLabelValues(domain.CollectionPeople, domain.ActionMerge).Inc()
		detail := fmt.Sprintf("merged duplicate of %q", candidate.Name)
		return candidate.ID, true, s.Audit(ctx, actor, domain.ActionMerge, domain.TargetPerson, p.Name, detail)
	}

	id, err = s.createEntity(ctx, actor, personMeta, p, p.Name)
	return id, false, err
}

func (s *Synchronizer) UpdatePerson(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error {
	return s.updateEntity(ctx, actor, personMeta, id, fields)
}

func (s *Synchronizer) DeletePerson(ctx context.Context, actor *ports.Session, id string) error {
	return s.deleteEntity(ctx, actor, personMeta, id)
}

// ── Users ────────────────────────────────────────────────────────────────────

func (s *Synchronizer) AddUser(ctx context.Context, actor *ports.Session, u domain.User) (string, error) {
	return s.createEntity(ctx, actor, userMeta, u, u.Name)
}

func (s *Synchronizer) UpdateUser(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error {
	return s.updateEntity(ctx, actor, userMeta, id, fields)
}

func (s *Synchronizer) DeleteUser(ctx context.Context, actor *ports.Session, id string) error {
	return s.deleteEntity(ctx, actor, userMeta, id)
}

// ── External events ──────────────────────────────────────────────────────────

func (s *Synchronizer) AddEvent(ctx context.Context, actor *ports.Session, e domain.ExternalEvent) (string, error) {
	return s.createEntity(ctx, actor, eventMeta, e, e.Title)
}

func (s *Synchronizer) UpdateEvent(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error {
	return s.updateEntity(ctx, actor, eventMeta, id, fields)
}

func (s *Synchronizer) DeleteEvent(ctx context.Context, actor *ports.Session, id string) error {
	return s.deleteEntity(ctx, actor, eventMeta, id)
}

// ── Financials ───────────────────────────────────────────────────────────────

func (s *Synchronizer) AddFinancial(ctx context.Context, actor *ports.Session, f domain.Financial) (string, error) {
	return s.createEntity(ctx, actor, financialMeta, f, f.CourseName)
}

func (s *Synchronizer) UpdateFinancial(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error {
	return s.updateEntity(ctx, actor, financialMeta, id, fields)
}

func (s *Synchronizer) DeleteFinancial(ctx context.Context, actor *ports.Session, id string) error {
	return s.deleteEntity(ctx, actor, financialMeta, id)
}

// ── Materials ────────────────────────────────────────────────────────────────

func (s *Synchronizer) AddMaterial(ctx context.Context, actor *ports.Session, m domain.Material) (string, error) {
	return s.createEntity(ctx, actor, materialMeta, m, m.Name)
}

func (s *Synchronizer) UpdateMaterial(ctx context.Context, actor *ports.Session, id string, fields map[string]any) error {
	return s.updateEntity(ctx, actor, materialMeta, id, fields)
}

func (s *Synchronizer) DeleteMaterial(ctx context.Context, actor *ports.Session, id string) error {
	return s.deleteEntity(ctx, actor, materialMeta, id)
}
