package dto

// AuditFilters echoes the audit search back to the page.
type AuditFilters struct {
	Action     string `json:"action,omitempty"`
	Actor      string `json:"actor,omitempty"`
	TargetType string `json:"targetType,omitempty"`
}
