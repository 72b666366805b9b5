package domain

// VisitLog records one field visit to a course.
type VisitLog struct {
	ID         string   `json:"id"`
	CourseID   string   `json:"course_id" validate:"required"`
	CourseName string   `json:"course_name,omitempty"`
	VisitDate  string   `json:"visit_date" validate:"required"`
	VisitType  string   `json:"visit_type,omitempty"`
	AuthorID   string   `json:"author_id,omitempty"`
	Author     string   `json:"author,omitempty"`
	Content    string   `json:"content" validate:"required"`
	Issues     []string `json:"issues,omitempty"`
	FollowUp   string   `json:"follow_up,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
}

// HasIssues reports whether the visit flagged anything needing attention.
// Restricted roles only see logs for which this is true.
func (l VisitLog) HasIssues() bool {
	return len(l.Issues) > 0
}
