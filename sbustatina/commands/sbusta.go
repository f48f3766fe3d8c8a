package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/8549/sbustatinabot/sbustatina"
	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/8549/sbustatinabot/sbustatina/game"
	"github.com/8549/sbustatinabot/sbustatina/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Sbusta = discord.SlashCommandCreate{
	Name:        "sbusta",
	Description: "🍬 Apri una bustina e scopri che carta trovi!",
}

func SbustaHandler(b *sbustatina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user := e.User()
		if err := b.UserRepository.EnsureExists(ctx, &models.User{
			DiscordID: user.ID.String(),
			Username:  user.Username,
			FirstName: user.EffectiveName(),
		}); err != nil {
			slog.Error("Failed to ensure user",
				slog.String("type", "error"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "❗ Errore 500: Si è verificato un errore interno.")
		}

		// The artwork presign plus two round trips can outlive the initial
		// interaction window.
		if err := e.DeferCreateMessage(false); err != nil {
			return fmt.Errorf("failed to defer message: %w", err)
		}

		result, err := b.Opener.Open(ctx, user.ID.String())
		if err != nil {
			return respondOpenError(e, err)
		}

		embed := buildDrawEmbed(result)
		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{embed},
		})
		return err
	}
}

func respondOpenError(e *handler.CommandEvent, err error) error {
	var message string
	var color int

	switch {
	case errors.Is(err, game.ErrQuotaExceeded):
		message = "Hai esaurito le sbustate disponibili per oggi... 😔"
		color = utils.WarningColor
	case errors.Is(err, game.ErrUnknownSet), errors.Is(err, game.ErrInvalidPool):
		// Catalog misconfiguration: the attempt is consumed regardless.
		slog.Error("Draw failed on catalog",
			slog.String("type", "error"),
			slog.Any("error", err))
		message = "❗ Errore: Non riesco a pescare da questo set."
		color = utils.ErrorColor
	default:
		slog.Error("Draw failed",
			slog.String("type", "error"),
			slog.Any("error", err))
		message = "❗ Errore 500: Si è verificato un errore interno."
		color = utils.ErrorColor
	}

	_, updateErr := e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Description: message,
			Color:       color,
		}},
	})
	return updateErr
}

func buildDrawEmbed(result *game.DrawResult) discord.Embed {
	card := result.Card

	description := fmt.Sprintf("📇 %d", card.Number)
	if card.Set != nil {
		description = fmt.Sprintf("📇 %d/%d (%s)", card.Number, card.Set.NumberOfCards, card.Set.FullName)
	}
	if result.Entry.Count > 1 {
		description += fmt.Sprintf("\n♻️ La possiedi già x%d", result.Entry.Count)
	}
	description += fmt.Sprintf("\n🎟️ Sbustate rimaste oggi: %d", result.Remaining)

	return discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🍬 Hai sbustato %s!", card.Name)).
		SetDescription(description).
		SetImage(result.ArtworkURL).
		SetColor(utils.SuccessColor).
		Build()
}
