package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/middleware"
)

// ResponseBuilder writes the JSON envelopes every handler answers with.
type ResponseBuilder struct {
	c *gin.Context
}

func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

func (b *ResponseBuilder) SuccessOK(data any) {
	b.success(http.StatusOK, data)
}

func (b *ResponseBuilder) SuccessCreated(data any) {
	b.success(http.StatusCreated, data)
}

func (b *ResponseBuilder) success(status int, data any) {
	b.c.JSON(status, dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now(),
	})
}

// Error aborts with an envelope whose code follows the status. err, when
// set, is attached to the context for the error handler to log and never
// reaches the client.
func (b *ResponseBuilder) Error(status int, message string, err error) {
	b.abort(status, dto.NewError(dto.ErrCodeFromStatus(status), message), err)
}

// BadRequest rejects input that failed to bind or validate, echoing the
// reason in details.
func (b *ResponseBuilder) BadRequest(err error) {
	resp := dto.NewError(dto.ErrCodeInvalidRequest, dto.MsgInvalidRequestBody)
	if err != nil {
		resp.Details = map[string]string{"reason": err.Error()}
	}
	b.abort(http.StatusBadRequest, resp, err)
}

// AppError maps a service error onto its status and envelope.
func (b *ResponseBuilder) AppError(err error) {
	status, resp := dto.FromAppError(err)
	b.abort(status, resp, err)
}

func (b *ResponseBuilder) abort(status int, resp dto.ErrorResponse, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(status, resp.WithRequestID(middleware.GetRequestID(b.c)))
}
