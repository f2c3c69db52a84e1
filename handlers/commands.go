package handlers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"

	"tracker-bot/models"
	"tracker-bot/publisher"
	"tracker-bot/tracker"
	"tracker-bot/utils"
)

// SubscriptionLister is the read side of the subscription store the
// handlers need.
type SubscriptionLister interface {
	GetBySubscriber(subscriber string) ([]*models.Subscription, error)
}

// Dispatcher routes inbound chat commands to their handlers.
type Dispatcher struct {
	Tracker   *tracker.Tracker
	Subs      SubscriptionLister
	Auth      *utils.Auth
	Publisher publisher.Poster
}

type commandHandler func(d *Dispatcher, m *models.Message, arg string) string

// permittedCommands is the fixed set the router will dispatch. Membership
// is checked before the handler lookup.
var permittedCommands = map[string]bool{
	"help":    true,
	"track":   true,
	"untrack": true,
	"list":    true,
	"about":   true,
	"post":    true,
}

var commandTable = map[string]commandHandler{
	"help":    handleHelp,
	"track":   handleTrack,
	"untrack": handleUntrack,
	"list":    handleList,
	"about":   handleAbout,
	"post":    handlePost,
}

// MessageCreate feeds inbound chat messages through the command router.
// Messages not starting with the configured prefix are ignored.
func (d *Dispatcher) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore all messages created by the bot itself.
	if m.Author.ID == s.State.User.ID {
		return
	}

	prefix := viper.GetString("bot.prefix")
	if prefix == "" {
		prefix = "/" // Default prefix
	}
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	msg := &models.Message{
		Sender: m.Author.ID,
		Body:   strings.TrimPrefix(m.Content, prefix),
	}
	for _, reply := range d.Dispatch(msg) {
		if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
			utils.Error("handlers", "reply", err.Error())
		}
	}
}

// Dispatch runs msg through the permitted-command table and returns the
// replies to send, in order. Every dispatch ends with the unknown-command
// notice, even when a matched handler already ran.
func (d *Dispatcher) Dispatch(msg *models.Message) []string {
	name, arg := msg.Command()

	var replies []string
	if permittedCommands[name] {
		if handler, ok := commandTable[name]; ok {
			replies = append(replies, handler(d, msg, arg))
		}
	}
	replies = append(replies, fmt.Sprintf("Unrecognized command <%s>. Send help for the list of commands.", msg.Body))
	return replies
}
