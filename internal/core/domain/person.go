package domain

import "strings"

// Person is a contact at (or around) a golf course. Identity is human-entered
// free text with no stable external key, so near-duplicate names are a real
// hazard; see NormalizeName.
type Person struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required"`
	CourseID    string   `json:"course_id,omitempty"`
	CourseName  string   `json:"course_name,omitempty"`
	Title       string   `json:"title,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty" validate:"omitempty,email"`
	Disposition string   `json:"disposition,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// NormalizeName reduces a human-entered name to its comparison form: leading,
// trailing and internal whitespace removed, case folded. " 김 철수 " and
// "김철수" normalize identically.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// NormalizedName returns the person's name in comparison form.
func (p Person) NormalizedName() string {
	return NormalizeName(p.Name)
}
