package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/8549/sbustatinabot/sbustatina"
	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/8549/sbustatinabot/sbustatina/game"
	"github.com/8549/sbustatinabot/sbustatina/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

var Collezione = discord.SlashCommandCreate{
	Name:        "collezione",
	Description: "📒 Guarda le carte della tua collezione",
}

func CollezioneHandler(b *sbustatina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entries, err := b.CollectionRepository.ListByUser(ctx, e.User().ID.String())
		if errors.Is(err, game.ErrEmptyCollection) {
			return utils.EH.CreateInfoEmbed(e, "La tua collezione è ancora vuota 🧐")
		}
		if err != nil {
			slog.Error("Failed to load collection",
				slog.String("type", "error"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "❗ Errore 500: Si è verificato un errore interno.")
		}

		totalPages := int(math.Ceil(float64(len(entries)) / float64(utils.EntriesPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * utils.EntriesPerPage
				endIdx := min(startIdx+utils.EntriesPerPage, len(entries))

				var description strings.Builder
				description.WriteString("📒 La tua collezione:\n\n")
				for _, entry := range entries[startIdx:endIdx] {
					description.WriteString(formatEntry(entry))
					description.WriteString("\n")
				}

				embed.
					SetTitle("Collezione").
					SetDescription(description.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Pagina %d/%d • %d carte", page+1, totalPages, len(entries)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func formatEntry(entry *models.CollectionEntry) string {
	card := entry.Card
	if card == nil {
		return fmt.Sprintf("? x%d", entry.Count)
	}
	if card.Set == nil {
		return fmt.Sprintf("%d %s x%d", card.Number, card.Name, entry.Count)
	}
	return fmt.Sprintf("%d/%d (%s) %s x%d",
		card.Number, card.Set.NumberOfCards, card.Set.FullName, card.Name, entry.Count)
}
