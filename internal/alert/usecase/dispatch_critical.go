package usecase

import (
	"context"
	"fmt"
	"strings"

	"alert-srv/internal/model"
	"alert-srv/pkg/discord"
)

// dispatchCritical mirrors a critical alert to the ops Discord channel in the background.
func (uc *implUseCase) dispatchCritical(ctx context.Context, a model.Alert) {
	if uc.discord == nil {
		return
	}

	res := a.AffectedResources
	fields := []discord.EmbedField{
		buildField("Type", string(a.Type), true),
		buildField("Area", string(a.Area), true),
		buildField("Expires", a.ExpiresAt.Format("2006-01-02 15:04"), true),
		buildField("Resources", fmt.Sprintf("beds %d, icu %d, ventilators %d, staff %d, ambulances %d",
			res.Beds, res.ICUBeds, res.Ventilators, res.Staff, res.Ambulances), false),
	}
	if len(a.RecommendedActions) > 0 {
		lines := make([]string, len(a.RecommendedActions))
		for i, ra := range a.RecommendedActions {
			lines[i] = fmt.Sprintf("[%s] %s", strings.ToUpper(string(ra.Priority)), ra.Action)
		}
		fields = append(fields, buildField("Recommended Actions", strings.Join(lines, "\n"), false))
	}

	opts := discord.MessageOptions{
		Title:       "CRITICAL: " + a.Title,
		Description: a.Message,
		Color:       discord.ColorRed,
		Fields:      fields,
		Footer:      "alert " + a.ID,
		Timestamp:   a.CreatedAt,
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := uc.discord.SendEmbed(ctx, opts); err != nil {
			uc.l.Warnf(ctx, "internal.alert.usecase.dispatchCritical: %v", err)
		}
	}()
}
