package domain

// CourseStatus reflects the commercial relationship with a golf course.
type CourseStatus string

const (
	CourseActive   CourseStatus = "active"
	CourseProspect CourseStatus = "prospect"
	CourseDormant  CourseStatus = "dormant"
	CourseLost     CourseStatus = "lost"
)

// Course is one golf course the vendor services or pursues.
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Region      string       `json:"region,omitempty"`
	Address     string       `json:"address,omitempty"`
	Holes       int          `json:"holes,omitempty" validate:"omitempty,min=1,max=90"`
	GrassType   string       `json:"grass_type,omitempty"`
	Status      CourseStatus `json:"status,omitempty"`
	Description string       `json:"description,omitempty"`
	Memo        string       `json:"memo,omitempty"`
	// AISummary is the latest generated overview; refreshed asynchronously.
	AISummary string `json:"ai_summary,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
