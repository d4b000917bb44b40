package apierror

// Problem type URIs used as the "type" member of every error response
const (
	TypeValidation      = "urn:dailymood:error:validation"
	TypeNotFound        = "urn:dailymood:error:not_found"
	TypeRateLimit       = "urn:dailymood:error:rate_limit"
	TypeUnauthorized    = "urn:dailymood:error:unauthorized"
	TypeForbidden       = "urn:dailymood:error:forbidden"
	TypePremiumRequired = "urn:dailymood:error:premium_required"
	TypeInternal        = "urn:dailymood:error:internal"
	TypeUnavailable     = "urn:dailymood:error:unavailable"
	TypeInvalidUUID     = "urn:dailymood:error:invalid_uuid"
	TypeFutureTimestamp = "urn:dailymood:error:future_timestamp"
	TypeBadRequest      = "urn:dailymood:error:bad_request"
)

const (
	TitleValidation      = "Validation Error"
	TitleNotFound        = "Resource Not Found"
	TitleRateLimit       = "Rate Limit Exceeded"
	TitleUnauthorized    = "Authentication Required"
	TitleForbidden       = "Permission Denied"
	TitlePremiumRequired = "Premium Subscription Required"
	TitleInternal        = "Internal Server Error"
	TitleUnavailable     = "Service Unavailable"
	TitleInvalidUUID     = "Invalid UUID Format"
	TitleFutureTimestamp = "Future Timestamp Not Allowed"
	TitleBadRequest      = "Bad Request"
)
