package domain

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Kim Cheolsu", "kimcheolsu"},
		{"  Kim   Cheolsu  ", "kimcheolsu"},
		{" 김 철수 ", "김철수"},
		{"김철수", "김철수"},
		{"O'Brien", "o'brien"},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizedNamesCollide(t *testing.T) {
	a := Person{Name: " 김 철수 "}
	b := Person{Name: "김철수"}
	if a.NormalizedName() != b.NormalizedName() {
		t.Fatalf("expected %q and %q to normalize identically", a.Name, b.Name)
	}
}

func TestCapabilitiesFor(t *testing.T) {
	cases := []struct {
		role string
		want Capabilities
	}{
		{RoleAdmin, Capabilities{UseAI: true, ViewAllData: true, Admin: true}},
		{RoleManager, Capabilities{UseAI: true, ViewAllData: true}},
		{RoleStaff, Capabilities{ViewAllData: true}},
		{RoleViewer, Capabilities{}},
		{"intruder", Capabilities{}},
	}
	for _, tc := range cases {
		if got := CapabilitiesFor(tc.role); got != tc.want {
			t.Errorf("CapabilitiesFor(%q) = %+v, want %+v", tc.role, got, tc.want)
		}
	}
}
