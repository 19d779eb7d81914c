package handler

import (
	"errors"
	"net/http"

	"shortlink/internal/model"
	"shortlink/internal/repository"
	"shortlink/internal/service"
	"shortlink/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Response is the standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the error API response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "Invalid request: " + err.Error(),
	})
}

// fail writes the error response matching err. Server-side failures are
// logged and answered with a generic message.
func fail(c *gin.Context, err error) {
	status := statusFor(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		message = http.StatusText(status)
	}

	c.JSON(status, ErrorResponse{
		Code:    status,
		Message: message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrInvalidSlug),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrMissingSession):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrLinkNotFound),
		errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLinkDisabled):
		return http.StatusGone
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// requestContext collects the click fields of the current request
func requestContext(c *gin.Context) model.RequestContext {
	country, region := middleware.Geo(c)
	return model.RequestContext{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		Country:   country,
		Region:    region,
		SessionID: middleware.SessionID(c),
	}
}
