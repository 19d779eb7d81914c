package service

import "errors"

var (
	// ErrInvalidURL is returned when the destination is not an absolute http/https URL
	ErrInvalidURL = errors.New("invalid URL")
	// ErrInvalidSlug is returned when a caller-chosen slug is malformed or reserved
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrInvalidInput is returned for any other malformed argument
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingSession is returned when an operation needs a session id and got none
	ErrMissingSession = errors.New("missing session id")
	// ErrLinkNotFound is returned when the slug does not resolve to a link
	ErrLinkNotFound = errors.New("link not found")
	// ErrLinkDisabled is returned when resolving a link that has been disabled
	ErrLinkDisabled = errors.New("link disabled")
	// ErrForbidden is returned when the requester may not act on the link
	ErrForbidden = errors.New("forbidden")
	// ErrSlugTaken is returned when the slug is already in use
	ErrSlugTaken = errors.New("slug already taken")
	// ErrSlugGenerationExhausted is returned when no free random slug was found
	ErrSlugGenerationExhausted = errors.New("slug generation exhausted")
	// ErrRateLimited is returned when a rate-limit window is full
	ErrRateLimited = errors.New("rate limited")
	// ErrPartialRecord is returned when some click aggregates could not be written
	ErrPartialRecord = errors.New("click partially recorded")
	// ErrArchiveDisabled is returned when the raw click archive is not configured
	ErrArchiveDisabled = errors.New("click archive disabled")
)
