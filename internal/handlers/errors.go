package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mrmorrispmorris/dailymood/backend/internal/apierror"
	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/internal/middleware"
	"github.com/mrmorrispmorris/dailymood/backend/internal/service"
)

// writeServiceError maps a service error to a problem response. resource and
// id describe the target of not-found errors.
func writeServiceError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		fields := make([]apierror.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, apierror.FieldError{Field: f.Field, Message: f.Message, Code: f.Code})
		}
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fields))
		return
	}

	field := "id"
	var ferr *service.InvalidFieldError
	if errors.As(err, &ferr) {
		field = ferr.Field
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, service.ErrInvalidUUID), errors.Is(err, service.ErrNotUUIDv7):
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(requestID, field, id))
	case errors.Is(err, service.ErrFutureTimestamp):
		apierror.WriteProblem(c, apierror.NewFutureTimestampError(requestID, field))
	case errors.Is(err, service.ErrPremiumRequired):
		apierror.WriteProblem(c, apierror.NewPremiumRequiredError(requestID, resource))
	default:
		logger.Ctx(c.Request.Context()).Error("request failed",
			logger.String("resource", resource),
			logger.Err(err),
		)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}

// requireUser returns the authenticated user id or writes a 401
func requireUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return userID, true
}

func badJSON(c *gin.Context, err error) {
	apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), err.Error(), "Invalid JSON format"))
}

func invalidParams(c *gin.Context, fields []apierror.FieldError) {
	apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fields))
}
