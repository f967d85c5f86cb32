package discord

import (
	"context"
	"strings"

	"alert-srv/pkg/log"
)

// IDiscord posts messages to a Discord channel webhook.
type IDiscord interface {
	SendEmbed(ctx context.Context, options MessageOptions) error
	ReportBug(ctx context.Context, message string) error
	Close() error
}

// New validates webhookURL and returns a webhook client.
func New(l log.Logger, webhookURL string) (IDiscord, error) {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil, ErrWebhookRequired
	}
	if !strings.HasPrefix(webhookURL, webhookPrefix) {
		return nil, ErrInvalidWebhookURL
	}
	parts := strings.SplitN(strings.TrimPrefix(webhookURL, webhookPrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrInvalidWebhookURL
	}
	return newImpl(l, webhookURL, DefaultConfig()), nil
}

// NewWithEndpoint skips URL validation. Used against self-hosted relays and in tests.
func NewWithEndpoint(l log.Logger, endpoint string, cfg Config) IDiscord {
	return newImpl(l, endpoint, cfg)
}
