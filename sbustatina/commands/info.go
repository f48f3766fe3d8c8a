package commands

import (
	"fmt"

	"github.com/8549/sbustatinabot/sbustatina"
	"github.com/8549/sbustatinabot/sbustatina/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Info = discord.SlashCommandCreate{
	Name:        "info",
	Description: "🍬 Versione del bot",
}

func InfoHandler(b *sbustatina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateInfoEmbed(e,
			fmt.Sprintf("🍬 Sbustatina v%s (%s): attivato 🍬", b.Version, b.Commit))
	}
}
