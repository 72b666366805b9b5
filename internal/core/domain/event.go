package domain

// ExternalEvent is an industry happening worth tracking: tournaments, trade
// shows, turf association meetings.
type ExternalEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required"`
	Date      string `json:"date,omitempty"`
	Location  string `json:"location,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Memo      string `json:"memo,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
