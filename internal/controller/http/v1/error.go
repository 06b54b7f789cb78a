package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/pkg/logger"
)

type response struct {
	Error string `json:"error" example:"message"`
}

func errorResponse(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, response{msg})
}

// signalingError answers with the status matching err. Only unexpected errors are logged.
func signalingError(c *gin.Context, l logger.Interface, err error, route string) {
	switch {
	case errors.Is(err, usecase.ErrEmptySignal),
		errors.Is(err, usecase.ErrMixedSignal),
		errors.Is(err, entity.ErrInvalidKind):
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrUnknownUser),
		errors.Is(err, usecase.ErrNotMember),
		errors.Is(err, usecase.ErrRoleMismatch):
		errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrNoCall):
		errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNotReady), errors.Is(err, usecase.ErrConflict):
		errorResponse(c, http.StatusConflict, err.Error())
	default:
		l.Error(err, "http - v1 - %s", route)
		errorResponse(c, http.StatusInternalServerError, "call store problems")
	}
}
