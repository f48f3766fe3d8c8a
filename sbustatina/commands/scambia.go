package commands

import (
	"github.com/8549/sbustatinabot/sbustatina"
	"github.com/8549/sbustatinabot/sbustatina/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Scambia = discord.SlashCommandCreate{
	Name:        "scambia",
	Description: "🔁 Scambia le tue carte doppie (presto disponibile)",
}

// TODO: trading needs an escrow flow between two users; stubbed until then.
func ScambiaHandler(_ *sbustatina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateInfoEmbed(e, "⚙️ Presto fuori... 🛠️")
	}
}
