package discord

import "errors"

var (
	ErrWebhookRequired   = errors.New("discord: webhook url is required")
	ErrInvalidWebhookURL = errors.New("discord: webhook url must be https://discord.com/api/webhooks/{id}/{token}")
	ErrEmbedTooLong      = errors.New("discord: embed exceeds size limit")
)
