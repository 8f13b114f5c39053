package server

import (
	"net/http"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/models"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to an HTTP status.
func statusFor(kind helpers.Kind) int {
	switch kind {
	case helpers.KindValidation:
		return http.StatusBadRequest
	case helpers.KindDataUnavailable:
		return http.StatusNotFound
	case helpers.KindForecast:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func errorResponse(err error) (int, models.MErrorResponse) {
	kind := helpers.ErrorKind(err)
	msg := err.Error()
	if kind == helpers.KindInternal {
		msg = "internal server error"
	}
	return statusFor(kind), models.MErrorResponse{
		Success:   false,
		Error:     msg,
		ErrorType: string(kind),
	}
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, body)
}
