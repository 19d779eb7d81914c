package service

//go:generate mockgen -destination=../mocks/mock_service.go -package=mocks shortlink/internal/service LinkServiceInterface,StatsServiceInterface,ClickDispatcherInterface,RateLimiterInterface

import (
	"context"

	"shortlink/internal/model"
	"shortlink/internal/mq"
)

// LinkServiceInterface defines the interface for link registry operations
type LinkServiceInterface interface {
	Create(ctx context.Context, req *model.CreateLinkRequest, ownerSID string) (*model.Link, error)
	Get(ctx context.Context, slug string) (*model.Link, error)
	Resolve(ctx context.Context, slug string) (string, error)
	Update(ctx context.Context, slug string, req *model.UpdateLinkRequest, requesterSID string, isAdmin bool) (*model.Link, error)
	Delete(ctx context.Context, slug, requesterSID string, isAdmin bool) error
	List(ctx context.Context, ownerSID string) ([]model.Link, error)
	ListAll(ctx context.Context, cursor, limit int64, isAdmin bool) (*model.LinkPage, error)
}

// StatsServiceInterface defines the interface for analytics reports
type StatsServiceInterface interface {
	Report(ctx context.Context, slug string) (*model.Report, error)
	ReportFor(ctx context.Context, slug, requesterSID string, isAdmin bool) (*model.Report, error)
	RecentClicks(ctx context.Context, slug string, limit int, isAdmin bool) ([]model.ClickLog, error)
}

// ClickRecorder records one click synchronously
type ClickRecorder interface {
	Record(ctx context.Context, slug string, rc *model.RequestContext) error
}

// ClickDispatcherInterface hands clicks to the tracker without waiting
type ClickDispatcherInterface interface {
	Dispatch(slug string, rc model.RequestContext) bool
}

// RateLimiterInterface defines the interface for fixed-window rate limiting
type RateLimiterInterface interface {
	Allow(ctx context.Context, ip, sid string) error
}

// ClickPublisher forwards recorded clicks to the event stream
type ClickPublisher interface {
	SendClick(ctx context.Context, msg *mq.ClickMessage) error
}

// LinkReader looks up a link by slug
type LinkReader interface {
	Get(ctx context.Context, slug string) (*model.Link, error)
}
