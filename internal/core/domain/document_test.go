package domain

import "testing"

func TestMergeNeverOverwritesID(t *testing.T) {
	doc := Document{"id": "c1", "name": "Pinebrook"}
	doc.Merge(map[string]any{"id": "evil", "name": "Lakeview", "region": "north"})

	if doc.ID() != "c1" {
		t.Fatalf("id overwritten by merge: %q", doc.ID())
	}
	if doc["name"] != "Lakeview" || doc["region"] != "north" {
		t.Fatalf("merge did not apply fields: %v", doc)
	}
}

func TestHasPersistentID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"tmp-123", false},
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"c1", true},
	}
	for _, tc := range cases {
		doc := Document{}
		if tc.id != "" {
			doc["id"] = tc.id
		}
		if got := doc.HasPersistentID(); got != tc.want {
			t.Errorf("HasPersistentID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := Document{"id": "c1", "name": "Pinebrook"}
	clone := doc.Clone()
	clone["name"] = "changed"

	if doc["name"] != "Pinebrook" {
		t.Fatalf("mutating a clone leaked into the original: %v", doc)
	}
}

func TestDecodeEncodeCourse(t *testing.T) {
	doc := Document{
		"id":     "c1",
		"name":   "Pinebrook Country Club",
		"holes":  float64(18), // JSON numbers arrive as float64
		"status": "active",
	}

	course, err := Decode[Course](doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if course.ID != "c1" || course.Name != "Pinebrook Country Club" || course.Holes != 18 {
		t.Fatalf("decoded course mismatch: %+v", course)
	}
	if course.Status != CourseActive {
		t.Fatalf("status = %q", course.Status)
	}

	back, err := Encode(course)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if back.ID() != "c1" || back["name"] != "Pinebrook Country Club" {
		t.Fatalf("encoded document mismatch: %v", back)
	}
}

func TestDecodeAllFailsOnMalformedDocument(t *testing.T) {
	docs := []Document{
		{"id": "c1", "name": "ok"},
		{"id": "c2", "holes": "not-a-number-at-all"},
	}
	if _, err := DecodeAll[Course](docs); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
