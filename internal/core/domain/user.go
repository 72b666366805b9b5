package domain

import "strings"

// Roles, from widest to narrowest capability set.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

// Account approval states. Registration always lands in StatusPending;
// approval is an out-of-band administrative action.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User models a registered actor in the system.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// NormalizeEmail is the comparison form used for all email equality checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Capabilities are the role-derived booleans gating feature areas.
type Capabilities struct {
	// UseAI gates visibility of AI features.
	UseAI bool `json:"use_ai"`
	// ViewAllData distinguishes full data access from the issues-only
	// restricted view.
	ViewAllData bool `json:"view_all_data"`
	// Admin gates the administrative surface.
	Admin bool `json:"admin"`
}

// capabilityTable is the fixed role → capability mapping. Not configurable at
// runtime.
var capabilityTable = map[string]Capabilities{
	RoleAdmin:   {UseAI: true, ViewAllData: true, Admin: true},
	RoleManager: {UseAI: true, ViewAllData: true, Admin: false},
	RoleStaff:   {UseAI: false, ViewAllData: true, Admin: false},
	RoleViewer:  {UseAI: false, ViewAllData: false, Admin: false},
}

// CapabilitiesFor returns the capability flags for a role. Unknown roles get
// no capabilities.
func CapabilitiesFor(role string) Capabilities {
	return capabilityTable[role]
}
