package model

import (
	"time"
)

// RequestContext carries the request fields the edge layer extracted for a
// single click
type RequestContext struct {
	ClientIP  string
	UserAgent string
	Referer   string
	Country   string
	Region    string
	SessionID string
}

// Agent is the categorised form of a user-agent string
type Agent struct {
	Device  string `json:"device"`
	OS      string `json:"os"`
	Browser string `json:"browser"`
}

// ClickLog represents one archived click
type ClickLog struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug         string    `json:"slug" gorm:"type:varchar(64);index;not null"`
	ClientIP     string    `json:"client_ip" gorm:"type:varchar(64)"`
	SessionID    string    `json:"session_id" gorm:"type:varchar(64)"`
	UserAgent    string    `json:"user_agent" gorm:"type:varchar(512)"`
	Referer      string    `json:"referer" gorm:"type:varchar(512)"`
	ReferrerHost string    `json:"referrer_host" gorm:"type:varchar(255)"`
	Location     string    `json:"location" gorm:"type:varchar(64)"`
	Device       string    `json:"device" gorm:"type:varchar(16)"`
	OS           string    `json:"os" gorm:"type:varchar(64)"`
	Browser      string    `json:"browser" gorm:"type:varchar(64)"`
	ClickedAt    time.Time `json:"clicked_at" gorm:"index"`
}

// TableName returns the table name for ClickLog
func (ClickLog) TableName() string {
	return "click_logs"
}
