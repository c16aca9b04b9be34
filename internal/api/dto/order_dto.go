package dto

// MarkSentRequest is the mark-sent dialog payload.
type MarkSentRequest struct {
	TrackingNumber string `json:"trackingNumber" form:"trackingNumber"`
}

// OrderFilters echoes the unsent-orders search back to the page.
type OrderFilters struct {
	Query string `json:"q"`
}
