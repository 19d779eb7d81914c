package handler

import (
	"net/http"

	"shortlink/internal/service"

	"github.com/gin-gonic/gin"
)

// RedirectHandler handles short link redirection
type RedirectHandler struct {
	links      service.LinkServiceInterface
	dispatcher service.ClickDispatcherInterface
}

// NewRedirectHandler creates a new RedirectHandler
func NewRedirectHandler(
	links service.LinkServiceInterface,
	dispatcher service.ClickDispatcherInterface,
) *RedirectHandler {
	return &RedirectHandler{
		links:      links,
		dispatcher: dispatcher,
	}
}

// Redirect handles GET /:slug
// @Summary Redirect to the destination URL
// @Description Redirects to the destination of an enabled link and records the click in the background
// @Tags redirect
// @Param slug path string true "Slug"
// @Success 302
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /{slug} [get]
func (h *RedirectHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")

	dest, err := h.links.Resolve(c.Request.Context(), slug)
	if err != nil {
		fail(c, err)
		return
	}

	// Tracking never delays or fails the redirect
	h.dispatcher.Dispatch(slug, requestContext(c))

	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, dest)
}
