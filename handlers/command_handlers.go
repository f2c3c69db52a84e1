package handlers

import (
	"context"
	"fmt"
	"strings"

	"tracker-bot/models"
	"tracker-bot/notify"
	"tracker-bot/tracker"
	"tracker-bot/utils"
)

var helpLines = []string{
	"help: Prints out this message",
	"track [search term]: Starts tracking the given search term and replies with the id for your subscription",
	"untrack [id]: Removes your subscription for that id",
	"list: Shows your subscriptions as search term -> id",
	"about: Tells you what I am",
	"post [text]: Publishes the text through your linked posting account",
}

func handleHelp(d *Dispatcher, m *models.Message, arg string) string {
	b := &notify.MessageBuilder{}
	b.Add("We all need a little help sometimes")
	for _, line := range helpLines {
		b.Add(line)
	}
	return b.Build()
}

func handleTrack(d *Dispatcher, m *models.Message, arg string) string {
	sub, err := d.Tracker.Track(context.Background(), m.Sender, arg)
	if err != nil {
		utils.Warn("tracker", "track", err.Error())
		return fmt.Sprintf("Sorry there was a problem with your last track command <%s>", m.Body)
	}
	return fmt.Sprintf("Tracking: %s with id: %d", sub.SearchTerm, sub.ID)
}

func handleUntrack(d *Dispatcher, m *models.Message, arg string) string {
	sub, err := d.Tracker.Untrack(context.Background(), m.Sender, arg)
	if err != nil {
		// Missing and not-owned ids get the same answer, so nothing leaks
		// about other users' subscriptions.
		return "Untrack failed. That subscription does not exist for you"
	}
	return fmt.Sprintf("No longer tracking: %s with id: %d", sub.SearchTerm, sub.ID)
}

func handleList(d *Dispatcher, m *models.Message, arg string) string {
	subscriber := subscriberAddress(m.Sender)
	subs, err := d.Subs.GetBySubscriber(subscriber)
	if err != nil {
		utils.Error("handlers", "list", err.Error())
		return "Sorry, I could not look up your subscriptions right now. Please try again later."
	}
	if len(subs) == 0 {
		return "You have no subscriptions. Send track [search term] to create one."
	}

	b := &notify.MessageBuilder{}
	b.Add("Your subscriptions:")
	for _, sub := range subs {
		b.Add(fmt.Sprintf("%s -> %d", sub.SearchTerm, sub.ID))
	}
	return b.Build()
}

func handleAbout(d *Dispatcher, m *models.Message, arg string) string {
	return "I am tracker-bot. I watch keyword feeds and message you when something matches. Send help to see what I can do."
}

func handlePost(d *Dispatcher, m *models.Message, arg string) string {
	subscriber := subscriberAddress(m.Sender)

	token, err := d.Auth.LinkedToken(subscriber)
	if err != nil {
		utils.Error("handlers", "post", err.Error())
		return "Sorry, I could not check your linked account right now. Please try again later."
	}
	if token == nil {
		return "You have not linked a posting account yet. Link one on the web profile page, then send post again."
	}
	if tracker.IsBlank(arg) {
		return "There was nothing to post. Send post [text] with the text to publish."
	}

	if err := d.Publisher.Post(context.Background(), token, arg); err != nil {
		utils.Error("publisher", "post", err.Error())
		return "Sorry, posting failed. Please try again later."
	}
	return fmt.Sprintf("Posted: %s", arg)
}

// subscriberAddress strips the client/session suffix from a raw sender
// address, matching the tracker's derivation.
func subscriberAddress(sender string) string {
	if i := strings.Index(sender, "/"); i >= 0 {
		return sender[:i]
	}
	return sender
}
