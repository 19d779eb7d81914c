package service

import (
	"fmt"
	"net/url"
	"strings"
)

const maxURLLength = 2048

// NormalizeURL validates an absolute http/https URL and returns it with a
// lower-cased scheme and host and a non-empty path.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxURLLength {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", ErrInvalidURL
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// referrerHost returns the lower-cased host of a referer header, or "direct"
// when there is none or it cannot be parsed.
func referrerHost(referer string) string {
	referer = strings.TrimSpace(referer)
	if referer == "" {
		return directReferrer
	}

	u, err := url.Parse(referer)
	if err != nil || u.Hostname() == "" {
		return directReferrer
	}
	return strings.ToLower(u.Hostname())
}

const directReferrer = "direct"
