package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"tracker-bot/bot"
)

// Register wires the command dispatcher and event handlers into the bot.
func Register(b *bot.Bot) {
	d := &Dispatcher{
		Tracker:   b.Tracker,
		Subs:      b.Subs,
		Auth:      b.Auth,
		Publisher: b.Publisher,
	}
	b.Session.AddHandler(d.MessageCreate)

	// Log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
}
