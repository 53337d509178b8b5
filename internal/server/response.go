package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/credence/internal/fetch"
	"github.com/ppiankov/credence/internal/history"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/request"
	"github.com/ppiankov/credence/internal/session"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// classify maps domain errors onto a status and error code
func classify(err error) (int, string) {
	var se *fetch.StatusError
	switch {
	case errors.Is(err, request.ErrValidation):
		return http.StatusUnprocessableEntity, string(request.KindOf(err))
	case errors.Is(err, history.ErrMalformedID):
		return http.StatusBadRequest, "MalformedID"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, session.ErrNoCurrentAnalysis):
		return http.StatusConflict, "ExportWithNoCurrentAnalysis"
	case errors.Is(err, session.ErrEmptyFeedback):
		return http.StatusBadRequest, "EmptyFeedback"
	case errors.Is(err, pipeline.ErrRunInFlight):
		return http.StatusConflict, "RunInFlight"
	case errors.Is(err, fetch.ErrDisallowed), errors.Is(err, fetch.ErrNoText), errors.Is(err, fetch.ErrPrivateAddress):
		return http.StatusUnprocessableEntity, "UnreadableURL"
	case errors.As(err, &se):
		return http.StatusBadGateway, "FetchFailed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Canceled"
	default:
		return http.StatusInternalServerError, "InternalError"
	}
}

func respondErr(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= 500 {
		// keep internals out of the response body
		RespondError(c, status, code, errors.New(http.StatusText(status)))
		_ = c.Error(err)
		return
	}
	RespondError(c, status, code, err)
}
