package view

import (
	"errors"

	"github.com/storefront/admin-console/internal/apiclient"
	apperrors "github.com/storefront/admin-console/pkg/util/errorutil"
)

const (
	SeverityError   = "error"
	SeveritySuccess = "success"
	SeverityInfo    = "info"
)

// Notice is a transient message shown on top of a page.
type Notice struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Success builds a success notice.
func Success(message string) *Notice {
	return &Notice{Severity: SeveritySuccess, Message: message}
}

// ErrorNotice turns err into an error notice. Canceled loads produce nil.
func ErrorNotice(err error, fallback string) *Notice {
	if err == nil || apiclient.IsCanceled(err) {
		return nil
	}
	return &Notice{Severity: SeverityError, Message: Message(err, fallback)}
}

// Message picks the most useful human-readable text for err.
func Message(err error, fallback string) string {
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		return apiclient.Message(err, fallback)
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" && domainErr.Code != "INTERNAL_ERROR" {
		return domainErr.Message
	}
	return fallback
}
