// Package apierror renders RFC 9457 problem details for every failed API
// request.
package apierror

// ProblemDetails is an RFC 9457 problem document plus a few extension members.
// See https://www.rfc-editor.org/rfc/rfc9457.html
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	RequestID   string       `json:"request_id,omitempty"`
	UserMessage string       `json:"user_message,omitempty"` // safe to show in the app
	RetryAfter  *int         `json:"retry_after,omitempty"`  // seconds, for 429 and 503
	Action      string       `json:"action,omitempty"`       // "authenticate" or "upgrade"
	Errors      []FieldError `json:"errors,omitempty"`
}

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}
