// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import "net/http"

// Stable numeric API error codes. Clients branch on these, so they must
// never be renumbered.
const (
	CodeSiteNotFound      = 1001
	CodeInvalidRequest    = 1002
	CodeInvalidPolicyType = 1006
	CodeTemplateNotFound  = 1009
	CodeRenderFailed      = 1010
)

// Error is a policy-engine failure carrying the stable API code and the
// HTTP status it maps to. There are no partial successes: a render either
// completes fully or surfaces one of these.
type Error struct {
	Code    int
	Status  int
	Message string
	Err     error // underlying cause, not exposed to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrSiteNotFound is returned when no site record exists for the
	// requested site ID.
	ErrSiteNotFound = &Error{Code: CodeSiteNotFound, Status: http.StatusNotFound, Message: "Site not found"}

	// ErrInvalidPolicyType is returned for a policy type outside
	// {cookie, privacy}.
	ErrInvalidPolicyType = &Error{Code: CodeInvalidPolicyType, Status: http.StatusBadRequest, Message: "Invalid policy type"}

	// ErrTemplateNotFound is returned when neither an active template nor
	// a built-in default exists for the requested type. With defaults
	// compiled in this should never occur for the public document types.
	ErrTemplateNotFound = &Error{Code: CodeTemplateNotFound, Status: http.StatusNotFound, Message: "Policy template not found"}
)

// renderError wraps an unexpected aggregation or template failure.
func renderError(err error) *Error {
	return &Error{Code: CodeRenderFailed, Status: http.StatusInternalServerError, Message: "Failed to render policy", Err: err}
}
