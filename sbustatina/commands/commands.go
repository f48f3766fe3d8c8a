package commands

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Sbusta,
	Collezione,
	Valuta,
	Scambia,
	Info,
}
