package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Collection names tracked by the synchronizer.
const (
	CollectionLogs       = "logs"
	CollectionCourses    = "courses"
	CollectionPeople     = "people"
	CollectionEvents     = "events"
	CollectionUsers      = "users"
	CollectionAuditLog   = "audit_log"
	CollectionFinancials = "financials"
	CollectionMaterials  = "materials"
)

// TrackedCollections returns every collection the synchronizer mirrors.
func TrackedCollections() []string {
	return []string{
		CollectionLogs,
		CollectionCourses,
		CollectionPeople,
		CollectionEvents,
		CollectionUsers,
		CollectionAuditLog,
		CollectionFinancials,
		CollectionMaterials,
	}
}

// FieldID is the identity field every document carries.
const FieldID = "id"

// TempIDPrefix marks placeholder ids assigned by a client before the store
// has issued a real identity. Save treats them as "no id".
const TempIDPrefix = "tmp-"

// Document is one schemaless record within a collection. Identity lives in
// the "id" field, is assigned at creation, and never changes.
type Document map[string]any

// ID returns the document's identity, or "" when unset.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// HasPersistentID reports whether the document carries a real, store-issued
// identity rather than nothing or a temporary placeholder.
func (d Document) HasPersistentID() bool {
	id := d.ID()
	return id != "" && !strings.HasPrefix(id, TempIDPrefix)
}

// Clone returns a shallow copy. Nested values are shared; callers treat
// documents as immutable once published.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge applies a field-level partial update, leaving absent fields untouched.
// The id field is never overwritten by a merge.
func (d Document) Merge(fields map[string]any) {
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		d[k] = v
	}
}

// CloneAll copies a snapshot slice so subscribers can never alias store state.
func CloneAll(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}

// Decode converts a document into a typed entity using its json tags.
func Decode[T any](doc Document) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(map[string]any(doc)); err != nil {
		return out, fmt.Errorf("decode document %q: %w", doc.ID(), err)
	}
	return out, nil
}

// DecodeAll converts a snapshot into typed entities, skipping nothing: a
// single malformed document fails the whole call.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := Decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode converts a typed entity into a document using its json tags.
func Encode(v any) (Document, error) {
	var m map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &m,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return Document(m), nil
}

// NowStamp formats the current UTC time the way all document timestamps are
// stored.
func NowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
