package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"shortlink/pkg/util"

	"github.com/gin-gonic/gin"
)

// Context keys set by Identity
const (
	ContextKeySessionID = "sid"
	ContextKeyAdmin     = "is_admin"
	ContextKeyCountry   = "geo_country"
	ContextKeyRegion    = "geo_region"
)

const sessionMaxAge = 365 * 24 * time.Hour

// IdentityOptions names the cookie and the trusted edge headers
type IdentityOptions struct {
	SessionCookie string
	AdminHeader   string
	CountryHeader string
	RegionHeader  string
}

// Identity extracts the caller's session id, admin flag and geo fields.
// A session cookie is issued when the request carries none. The admin and
// geo headers are trusted as set by the edge proxy.
func Identity(opts IdentityOptions) gin.HandlerFunc {
	if opts.SessionCookie == "" {
		opts.SessionCookie = "sid"
	}

	return func(c *gin.Context) {
		sid, err := c.Cookie(opts.SessionCookie)
		if err != nil || strings.TrimSpace(sid) == "" {
			sid = util.GenerateUUID()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     opts.SessionCookie,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(ContextKeySessionID, sid)

		admin := false
		if opts.AdminHeader != "" {
			admin, _ = strconv.ParseBool(c.GetHeader(opts.AdminHeader))
		}
		c.Set(ContextKeyAdmin, admin)

		if opts.CountryHeader != "" {
			c.Set(ContextKeyCountry, strings.ToUpper(strings.TrimSpace(c.GetHeader(opts.CountryHeader))))
		}
		if opts.RegionHeader != "" {
			c.Set(ContextKeyRegion, strings.ToUpper(strings.TrimSpace(c.GetHeader(opts.RegionHeader))))
		}

		c.Next()
	}
}

// SessionID returns the session id set by Identity
func SessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// IsAdmin reports whether the edge marked the caller as an administrator
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextKeyAdmin)
}

// Geo returns the country and region forwarded by the edge
func Geo(c *gin.Context) (country, region string) {
	return c.GetString(ContextKeyCountry), c.GetString(ContextKeyRegion)
}
