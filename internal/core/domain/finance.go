package domain

// Financial is one per-course financial record (contract, invoice, cost item).
type Financial struct {
	ID         string  `json:"id"`
	CourseID   string  `json:"course_id" validate:"required"`
	CourseName string  `json:"course_name,omitempty"`
	Year       int     `json:"year" validate:"required,min=2000,max=2100"`
	Month      int     `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Category   string  `json:"category,omitempty"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency,omitempty"`
	Memo       string  `json:"memo,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// Material is one per-course material delivery record (seed, fertilizer,
// equipment and the like).
type Material struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"course_id" validate:"required"`
	CourseName  string  `json:"course_name,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Quantity    float64 `json:"quantity,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	DeliveredAt string  `json:"delivered_at,omitempty"`
	Memo        string  `json:"memo,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}
