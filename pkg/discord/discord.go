package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"alert-srv/pkg/log"
)

func newImpl(l log.Logger, url string, cfg Config) *discordImpl {
	return &discordImpl{
		l:      l,
		url:    url,
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

func (d *discordImpl) Close() error {
	d.client.CloseIdleConnections()
	return nil
}

func (d *discordImpl) SendEmbed(ctx context.Context, options MessageOptions) error {
	embed := Embed{
		Title:       truncate(options.Title, MaxTitleLen),
		Description: truncate(options.Description, MaxDescriptionLen),
		Color:       options.Color,
		Fields:      options.Fields,
	}
	if embed.Color == 0 {
		embed.Color = ColorBlue
	}
	if options.Footer != "" {
		embed.Footer = &EmbedFooter{Text: options.Footer}
	}
	if !options.Timestamp.IsZero() {
		embed.Timestamp = options.Timestamp.Format(time.RFC3339)
	}
	if embedLength(embed) > MaxEmbedLength {
		return ErrEmbedTooLong
	}

	return d.sendWithRetry(ctx, &WebhookPayload{
		Username: d.config.Username,
		Embeds:   []Embed{embed},
	})
}

func (d *discordImpl) ReportBug(ctx context.Context, message string) error {
	return d.SendEmbed(ctx, MessageOptions{
		Title:       reportBugTitle,
		Description: fmt.Sprintf("```%s```", truncate(message, MaxDescriptionLen-6)),
		Color:       ColorRed,
		Timestamp:   time.Now(),
	})
}

func (d *discordImpl) sendWithRetry(ctx context.Context, payload *WebhookPayload) error {
	var lastErr error
	for attempt := 0; attempt <= d.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.config.RetryDelay):
			}
		}
		if lastErr = d.send(ctx, payload); lastErr == nil {
			return nil
		}
		if d.l != nil {
			d.l.Warnf(ctx, "pkg.discord.sendWithRetry: attempt %d failed: %v", attempt+1, lastErr)
		}
	}
	return fmt.Errorf("discord: failed after %d attempts: %w", d.config.RetryCount+1, lastErr)
}

func (d *discordImpl) send(ctx context.Context, payload *WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

func embedLength(e Embed) int {
	n := len(e.Title) + len(e.Description)
	for _, f := range e.Fields {
		n += len(f.Name) + len(f.Value)
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
