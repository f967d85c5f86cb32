package response

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"alert-srv/pkg/discord"

	"github.com/gin-gonic/gin"
)

func sendDiscordMessageAsync(d discord.IDiscord, message string) {
	go func() {
		for _, msg := range splitMessageForDiscord(message) {
			if err := d.ReportBug(context.Background(), msg); err != nil {
				log.Printf("pkg.response.sendDiscordMessageAsync.ReportBug: %v\n", err)
			}
		}
	}()
}

func splitMessageForDiscord(message string) []string {
	var chunks []string
	var current string
	for _, line := range strings.Split(message, "\n") {
		line += "\n"
		if len(current)+len(line) > DiscordMaxMessageLen {
			if current != "" {
				chunks = append(chunks, strings.TrimSuffix(current, "\n"))
				current = ""
			}
			for len(line) > DiscordMaxMessageLen {
				chunks = append(chunks, line[:DiscordMaxMessageLen])
				line = line[DiscordMaxMessageLen:]
			}
		}
		current += line
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSuffix(current, "\n"))
	}
	return chunks
}

var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

func buildInternalServerErrorDataForReportBug(c *gin.Context, errString string, backtrace []string) string {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	var sb strings.Builder
	sb.WriteString("================ ALERT SERVICE ERROR ================\n")
	sb.WriteString(fmt.Sprintf("Route   : %s\n", c.Request.URL.Path))
	sb.WriteString(fmt.Sprintf("Method  : %s\n", c.Request.Method))
	sb.WriteString("-----------------------------------------------------\n")
	if len(c.Request.Header) > 0 {
		sb.WriteString("Headers :\n")
		for key, values := range c.Request.Header {
			if redactedHeaders[key] {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s: %s\n", key, strings.Join(values, ", ")))
		}
		sb.WriteString("-----------------------------------------------------\n")
	}
	if params := c.Request.URL.Query().Encode(); params != "" {
		sb.WriteString(fmt.Sprintf("Params  : %s\n", params))
	}
	if len(bodyBytes) > 0 {
		sb.WriteString("Body    :\n")
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, bodyBytes, "    ", "  "); err == nil {
			sb.WriteString(pretty.String() + "\n")
		} else {
			sb.WriteString("    " + string(bodyBytes) + "\n")
		}
		sb.WriteString("-----------------------------------------------------\n")
	}
	sb.WriteString(fmt.Sprintf("Error   : %s\n", errString))
	if len(backtrace) > 0 {
		sb.WriteString("\nBacktrace:\n")
		for i, line := range backtrace {
			sb.WriteString(fmt.Sprintf("[%d]: %s\n", i, line))
		}
	}
	sb.WriteString("=====================================================\n")
	return sb.String()
}
