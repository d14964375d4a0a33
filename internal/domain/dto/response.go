package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/catering-service/internal/apperrors"
)

// Machine-readable values of ErrorResponse.Error.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInternal       = "internal_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeConflict       = "conflict"
	ErrCodeTimeout        = "timeout"
	// ErrCodeNotReady means the order configuration is incomplete.
	ErrCodeNotReady = "not_ready"
	// ErrCodeStateConflict means a disallowed state transition.
	ErrCodeStateConflict = "state_conflict"
	ErrCodeUnavailable   = "dependency_unavailable"
)

// Public messages for errors raised outside the service layer.
const (
	MsgInvalidRequestBody = "Invalid request body"
	MsgInternalError      = "An unexpected error occurred"
	MsgAPIKeyRequired     = "API key is required"
	MsgInvalidAPIKey      = "Invalid API key"
	MsgTokenRequired      = "Authentication token is required"
	MsgInvalidToken       = "Invalid or expired token"
	MsgInvalidCredentials = "Invalid email or password"
	MsgForbidden          = "Forbidden"
	MsgRateLimitExceeded  = "Too many requests, please try again later"
	MsgTimeout            = "Request timeout"
	MsgSessionRequired    = "X-Session-ID header is required"
)

// SuccessResponse is the envelope of every 2xx JSON body.
type SuccessResponse struct {
	Data      any       `json:"data" swaggertype:"object"`
	RequestID string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time `json:"timestamp" example:"2026-10-15T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"not_ready"`
	Message string `json:"message,omitempty" example:"checkout is incomplete"`
	// Details carries structured context, e.g. {"block_reason": "time_required"}
	Details   any       `json:"details,omitempty" swaggertype:"object"`
	RequestID string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time `json:"timestamp" example:"2026-10-15T10:00:00Z"`
} // @name ErrorResponse

func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

var statusCodes = map[int]string{
	http.StatusBadRequest:          ErrCodeInvalidRequest,
	http.StatusUnauthorized:        ErrCodeUnauthorized,
	http.StatusForbidden:           ErrCodeForbidden,
	http.StatusNotFound:            ErrCodeNotFound,
	http.StatusRequestTimeout:      ErrCodeTimeout,
	http.StatusConflict:            ErrCodeConflict,
	http.StatusUnprocessableEntity: ErrCodeNotReady,
	http.StatusTooManyRequests:     ErrCodeRateLimit,
	http.StatusServiceUnavailable:  ErrCodeUnavailable,
	http.StatusGatewayTimeout:      ErrCodeTimeout,
}

var appCodes = map[apperrors.Code]string{
	apperrors.CodeValidation:    ErrCodeInvalidRequest,
	apperrors.CodeNotReady:      ErrCodeNotReady,
	apperrors.CodeUnauthorized:  ErrCodeUnauthorized,
	apperrors.CodeForbidden:     ErrCodeForbidden,
	apperrors.CodeNotFound:      ErrCodeNotFound,
	apperrors.CodeConflict:      ErrCodeConflict,
	apperrors.CodeStateConflict: ErrCodeStateConflict,
	apperrors.CodeDependency:    ErrCodeUnavailable,
}

// ErrCodeFromStatus maps an HTTP status onto an error code; anything
// unlisted is internal_error.
func ErrCodeFromStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return ErrCodeInternal
}

func ErrCodeFromApp(code apperrors.Code) string {
	if c, ok := appCodes[code]; ok {
		return c
	}
	return ErrCodeInternal
}

// FromAppError converts err into a status code and response body. Client
// errors keep their message; server errors expose only the public message.
func FromAppError(err error) (int, ErrorResponse) {
	appErr := apperrors.As(err)
	if appErr == nil {
		return http.StatusInternalServerError, NewError(ErrCodeInternal, MsgInternalError)
	}
	meta := apperrors.MetadataFor(appErr.Code())
	message := meta.PublicMessage
	if meta.HTTPStatus < http.StatusInternalServerError || appErr.Code() == apperrors.CodeDependency {
		if m := appErr.Message(); m != "" {
			message = m
		}
	}
	resp := NewError(ErrCodeFromApp(appErr.Code()), message)
	if meta.DetailsAllowed {
		resp.Details = appErr.Details()
	}
	return meta.HTTPStatus, resp
}
