package discord

import "time"

const (
	webhookPrefix = "https://discord.com/api/webhooks/"

	ColorBlue   = 3447003
	ColorGreen  = 3066993
	ColorYellow = 16776960
	ColorOrange = 15105570
	ColorRed    = 15158332

	MaxEmbedLength    = 6000
	MaxTitleLen       = 256
	MaxDescriptionLen = 4096
	MaxFieldValueLen  = 1024
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultRetryCount = 2
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultUsername   = "Alert Bot"
	userAgent         = "alert-srv/1.0"
	reportBugTitle    = "alert-srv error report"
)
