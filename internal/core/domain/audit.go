package domain

// Audit action kinds.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionLogin  = "LOGIN"
	ActionMerge  = "MERGE"
)

// Audit target kinds.
const (
	TargetCourse    = "COURSE"
	TargetLog       = "LOG"
	TargetPerson    = "PERSON"
	TargetUser      = "USER"
	TargetEvent     = "EVENT"
	TargetFinancial = "FINANCIAL"
	TargetMaterial  = "MATERIAL"
)

// AuditEvent is one immutable record of a mutating action. Events are only
// ever appended to the audit_log collection, never amended or removed.
type AuditEvent struct {
	ID         string `json:"id"`
	At         string `json:"at"`
	ActorID    string `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	Action     string `json:"action"`
	TargetKind string `json:"target_kind"`
	TargetName string `json:"target_name"`
	Detail     string `json:"detail,omitempty"`
}
