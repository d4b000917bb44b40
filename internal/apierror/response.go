package apierror

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type of problem responses
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes problem with the problem+json content type and a
// Retry-After header when RetryAfter is set. Instance defaults to the
// request path.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	if problem.Instance == "" && c.Request != nil && c.Request.URL != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	c.JSON(problem.Status, problem)
}

// AbortWithProblem writes problem and stops the handler chain
func AbortWithProblem(c *gin.Context, problem *ProblemDetails) {
	WriteProblem(c, problem)
	c.Abort()
}

// GetRequestID returns the id set by the request logger, falling back to the
// X-Request-ID header
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get("request_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	if c.Request == nil {
		return ""
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError creates a 400 problem listing every invalid field so the
// client can highlight them all at once
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "One or more fields failed validation",
		RequestID:   requestID,
		UserMessage: "Please check your input and try again",
		Errors:      errors,
	}
}

// NewNotFoundError creates a 404 problem for resource. Entries owned by
// another user are reported the same way as missing ones.
func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeNotFound,
		Title:       TitleNotFound,
		Status:      http.StatusNotFound,
		Detail:      fmt.Sprintf("%s with ID '%s' was not found", resource, id),
		RequestID:   requestID,
		UserMessage: fmt.Sprintf("The requested %s could not be found", resource),
	}
}

// NewRateLimitError builds a 429 asking the client to wait retryAfter seconds
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeRateLimit,
		Title:       TitleRateLimit,
		Status:      http.StatusTooManyRequests,
		Detail:      fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", retryAfter),
		RequestID:   requestID,
		UserMessage: "Too many requests. Please wait before trying again.",
		RetryAfter:  &retryAfter,
	}
}

// NewInternalError never carries the underlying error; log it instead
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInternal,
		Title:       TitleInternal,
		Status:      http.StatusInternalServerError,
		Detail:      "An unexpected error occurred",
		RequestID:   requestID,
		UserMessage: "Something went wrong. Please try again later.",
	}
}

// NewBadRequestError creates a 400 problem for requests that could not be
// parsed at all, such as malformed JSON
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeBadRequest,
		Title:       TitleBadRequest,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}

// NewUnauthorizedError creates a 401 problem telling the app to sign in again
func NewUnauthorizedError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUnauthorized,
		Title:       TitleUnauthorized,
		Status:      http.StatusUnauthorized,
		Detail:      "Authentication is required to access this resource",
		RequestID:   requestID,
		UserMessage: "Please sign in to continue",
		Action:      "authenticate",
	}
}

// NewForbiddenError creates a 403 problem
func NewForbiddenError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeForbidden,
		Title:       TitleForbidden,
		Status:      http.StatusForbidden,
		Detail:      "You do not have permission to access this resource",
		RequestID:   requestID,
		UserMessage: "You don't have permission to perform this action",
	}
}

// NewPremiumRequiredError is returned for features limited to paying users
func NewPremiumRequiredError(requestID, feature string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypePremiumRequired,
		Title:       TitlePremiumRequired,
		Status:      http.StatusForbidden,
		Detail:      fmt.Sprintf("%s requires an active premium subscription", feature),
		RequestID:   requestID,
		UserMessage: "Upgrade to Premium to unlock this feature",
		Action:      "upgrade",
	}
}

// NewInvalidUUIDError creates a 400 problem for an id in the path or body
// that is not a well-formed UUID, or not the required version
func NewInvalidUUIDError(requestID, field, value string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInvalidUUID,
		Title:       TitleInvalidUUID,
		Status:      http.StatusBadRequest,
		Detail:      fmt.Sprintf("Invalid UUID format for field '%s': '%s'", field, value),
		RequestID:   requestID,
		UserMessage: "Invalid identifier format",
		Errors: []FieldError{
			{Field: field, Message: "must be a valid UUID", Code: "invalid_uuid"},
		},
	}
}

// NewFutureTimestampError creates a 400 problem for timestamps beyond the
// allowed one minute of client clock skew
func NewFutureTimestampError(requestID, field string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeFutureTimestamp,
		Title:       TitleFutureTimestamp,
		Status:      http.StatusBadRequest,
		Detail:      fmt.Sprintf("Field '%s' contains a timestamp more than 1 minute in the future", field),
		RequestID:   requestID,
		UserMessage: "The mood entry time can't be in the future",
		Errors: []FieldError{
			{Field: field, Message: "timestamp cannot be more than 1 minute in the future", Code: "future_timestamp"},
		},
	}
}

// NewServiceUnavailableError creates a 503 problem with a Retry-After hint
func NewServiceUnavailableError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUnavailable,
		Title:       TitleUnavailable,
		Status:      http.StatusServiceUnavailable,
		Detail:      "The service is temporarily unavailable",
		RequestID:   requestID,
		UserMessage: "Service is temporarily unavailable. Please try again later.",
		RetryAfter:  &retryAfter,
	}
}
