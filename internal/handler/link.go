package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shortlink/internal/model"
	"shortlink/internal/service"
	"shortlink/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// LinkHandler handles link registry endpoints
type LinkHandler struct {
	links   service.LinkServiceInterface
	limiter service.RateLimiterInterface
	baseURL string
}

// NewLinkHandler creates a new LinkHandler. limiter guards link creation and
// may be nil. An empty baseURL derives short URLs from the request host.
func NewLinkHandler(
	links service.LinkServiceInterface,
	limiter service.RateLimiterInterface,
	baseURL string,
) *LinkHandler {
	return &LinkHandler{
		links:   links,
		limiter: limiter,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Create handles POST /api/v1/links
// @Summary Create a short link
// @Description Creates a short link owned by the caller's session. The slug is generated unless one is given.
// @Tags links
// @Accept json
// @Produce json
// @Param request body model.CreateLinkRequest true "Create request"
// @Success 201 {object} Response{data=model.CreateLinkResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/links [post]
func (h *LinkHandler) Create(c *gin.Context) {
	var req model.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	sid := middleware.SessionID(c)

	if h.limiter != nil {
		if err := h.limiter.Allow(ctx, c.ClientIP(), sid); err != nil {
			fail(c, err)
			return
		}
	}

	link, err := h.links.Create(ctx, &req, sid)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, http.StatusCreated, model.CreateLinkResponse{
		Link:     link,
		ShortURL: h.shortURL(c, link.Slug),
	})
}

// List handles GET /api/v1/links
// @Summary List my links
// @Description Lists the links created by the caller's session, newest first
// @Tags links
// @Produce json
// @Success 200 {object} Response{data=[]model.Link}
// @Router /api/v1/links [get]
func (h *LinkHandler) List(c *gin.Context) {
	links, err := h.links.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, links)
}

// Get handles GET /api/v1/links/:slug
// @Summary Get a short link
// @Tags links
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} Response{data=model.Link}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/links/{slug} [get]
func (h *LinkHandler) Get(c *gin.Context) {
	link, err := h.links.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}

	// Session ids are only shown to their owner
	if !middleware.IsAdmin(c) && link.OwnerSID != middleware.SessionID(c) {
		link.OwnerSID = ""
	}
	success(c, http.StatusOK, link)
}

// Update handles PATCH /api/v1/links/:slug
// @Summary Update a short link
// @Description Changes the destination, enabled flag, TTL or slug. Owner or admin only.
// @Tags links
// @Accept json
// @Produce json
// @Param slug path string true "Slug"
// @Param request body model.UpdateLinkRequest true "Update request"
// @Success 200 {object} Response{data=model.Link}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/links/{slug} [patch]
func (h *LinkHandler) Update(c *gin.Context) {
	var req model.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	link, err := h.links.Update(c.Request.Context(), c.Param("slug"), &req,
		middleware.SessionID(c), middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, link)
}

// Delete handles DELETE /api/v1/links/:slug
// @Summary Delete a short link
// @Description Deletes a link with all of its statistics
// @Tags links
// @Param slug path string true "Slug"
// @Success 200 {object} Response
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/links/{slug} [delete]
func (h *LinkHandler) Delete(c *gin.Context) {
	err := h.links.Delete(c.Request.Context(), c.Param("slug"),
		middleware.SessionID(c), middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, nil)
}

// ListAll handles GET /api/v1/admin/links
// @Summary List every link
// @Description Pages through all links in creation order. Admin only.
// @Tags admin
// @Produce json
// @Param cursor query int false "Offset of the first link"
// @Param limit query int false "Page size"
// @Success 200 {object} Response{data=model.LinkPage}
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/admin/links [get]
func (h *LinkHandler) ListAll(c *gin.Context) {
	cursor, err := queryInt(c, "cursor")
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.links.ListAll(c.Request.Context(), cursor, limit, middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, page)
}

func (h *LinkHandler) shortURL(c *gin.Context, slug string) string {
	if h.baseURL != "" {
		return h.baseURL + "/" + slug
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/" + slug
}

// queryInt parses an optional integer query parameter, 0 when absent
func queryInt(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
