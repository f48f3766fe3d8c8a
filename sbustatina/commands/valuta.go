package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/8549/sbustatinabot/sbustatina"
	"github.com/8549/sbustatinabot/sbustatina/game"
	"github.com/8549/sbustatinabot/sbustatina/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Valuta = discord.SlashCommandCreate{
	Name:        "valuta",
	Description: "🧮 Quanto vale la tua collezione di un set?",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "set",
			Description: "Il nome completo del set da valutare",
			Required:    true,
		},
	},
}

// tierComments maps the engine's tiers onto the bot's voice.
var tierComments = map[game.Tier]string{
	game.TierNothingYet:     "😅 Non c'è ancora niente",
	game.TierGoodStart:      "🥴 È un buon inizio...",
	game.TierDecentPile:     "👀 Un bel gruzzoletto",
	game.TierHalfway:        "🤩 Un mezzo devasto!",
	game.TierPastHalfway:    "💪 Sei a metà strada, campione",
	game.TierAlmostThere:    "🤑 Pooooorco zio",
	game.TierNearlyComplete: "😳 Un bel devastino...",
	game.TierComplete:       "💯 Devasto puro",
}

func ValutaHandler(b *sbustatina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		setName := strings.TrimSpace(e.SlashCommandInteractionData().String("set"))

		valuation, err := b.Valuator.Evaluate(ctx, e.User().ID.String(), setName)
		if err != nil {
			return respondValutaError(ctx, b, e, setName, err)
		}

		comment, ok := tierComments[valuation.Tier]
		if !ok {
			comment = "Non so come valutare la tua collezione..."
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("%s: %d/%d carte", valuation.Set.FullName,
					valuation.Owned, valuation.Set.NumberOfCards),
				Description: comment,
				Color:       utils.InfoColor,
			}},
		})
	}
}

func respondValutaError(ctx context.Context, b *sbustatina.Bot, e *handler.CommandEvent, setName string, err error) error {
	switch {
	case errors.Is(err, game.ErrMissingArgument):
		return utils.EH.CreateErrorEmbed(e, "❗ Errore: Non mi hai detto quale set vuoi valutare")
	case errors.Is(err, game.ErrUnknownSet):
		message := "❗ Errore: Nessun set con quel nome"
		if suggestions, sErr := b.SetRepository.SuggestNames(ctx, setName, 3); sErr == nil && len(suggestions) > 0 {
			message += fmt.Sprintf("\nForse intendevi: %s", strings.Join(suggestions, ", "))
		}
		return utils.EH.CreateWarningEmbed(e, message)
	default:
		slog.Error("Valuation failed",
			slog.String("type", "error"),
			slog.Any("error", err))
		return utils.EH.CreateErrorEmbed(e, "❗ Errore 500: Si è verificato un errore interno.")
	}
}
