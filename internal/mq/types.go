package mq

import (
	"time"

	"shortlink/internal/model"
)

// ClickMessage is one tracked click published to the click topic
type ClickMessage struct {
	Slug         string    `json:"slug"`
	ClientIP     string    `json:"client_ip"`
	SessionID    string    `json:"session_id"`
	UserAgent    string    `json:"user_agent"`
	Referer      string    `json:"referer"`
	ReferrerHost string    `json:"referrer_host"`
	Location     string    `json:"location"`
	Device       string    `json:"device"`
	OS           string    `json:"os"`
	Browser      string    `json:"browser"`
	ClickedAt    time.Time `json:"clicked_at"`
}

// ToClickLog converts the message into an archive row
func (m *ClickMessage) ToClickLog() *model.ClickLog {
	return &model.ClickLog{
		Slug:         m.Slug,
		ClientIP:     m.ClientIP,
		SessionID:    m.SessionID,
		UserAgent:    m.UserAgent,
		Referer:      m.Referer,
		ReferrerHost: m.ReferrerHost,
		Location:     m.Location,
		Device:       m.Device,
		OS:           m.OS,
		Browser:      m.Browser,
		ClickedAt:    m.ClickedAt,
	}
}
