package encoder

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultLength is the length of generated slugs
	DefaultLength = 7
	// MinLength is the minimum generated slug length
	MinLength = 4
	// MaxCustomLength is the maximum length of a caller-chosen slug
	MaxCustomLength = 64
)

// reserved slugs collide with top-level routes
var reserved = map[string]struct{}{
	"api":     {},
	"health":  {},
	"metrics": {},
	"swagger": {},
}

// SlugEncoder generates and validates slugs. Generated slugs use the
// URL-safe nanoid alphabet [A-Za-z0-9_-].
type SlugEncoder struct {
	length int
}

// NewSlugEncoder creates a new SlugEncoder producing slugs of the given length
func NewSlugEncoder(length int) *SlugEncoder {
	if length < MinLength {
		length = DefaultLength
	}
	return &SlugEncoder{length: length}
}

// Length returns the generated slug length
func (e *SlugEncoder) Length() int {
	return e.length
}

// Generate returns a random slug
func (e *SlugEncoder) Generate() (string, error) {
	slug, err := gonanoid.New(e.length)
	if err != nil {
		return "", fmt.Errorf("generate slug: %w", err)
	}
	return slug, nil
}

// IsValid reports whether s can be used as a custom slug
func (e *SlugEncoder) IsValid(s string) bool {
	if len(s) == 0 || len(s) > MaxCustomLength {
		return false
	}
	if IsReserved(s) {
		return false
	}
	for _, c := range s {
		if !isSlugChar(c) {
			return false
		}
	}
	return true
}

// IsReserved reports whether s names a top-level route
func IsReserved(s string) bool {
	_, ok := reserved[strings.ToLower(s)]
	return ok
}

func isSlugChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	default:
		return false
	}
}
