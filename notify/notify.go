package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"tracker-bot/models"
)

// Sender is the slice of the chat session the dispatcher needs. It is
// satisfied by *discordgo.Session.
type Sender interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// MessageBuilder accumulates reply lines and joins them into one chat
// message with explicit line breaks.
type MessageBuilder struct {
	lines []string
}

// Add appends one line to the reply.
func (b *MessageBuilder) Add(line string) {
	b.lines = append(b.lines, line)
}

// Build returns the accumulated lines as a single message.
func (b *MessageBuilder) Build() string {
	return strings.Join(b.lines, "\n")
}

// BuildFromPost formats one matched post as a chat line naming the search
// term, the post title and its URL.
func BuildFromPost(post models.Post, searchTerm string) string {
	return fmt.Sprintf("%s matched: [%s](%s)", searchTerm, post.Title, post.URL)
}

// SendPosts delivers one message per post to the subscriber's direct
// channel, preserving post order. Each send gets one attempt; a failure is
// logged and the remaining posts are still delivered.
func SendPosts(s Sender, posts []models.Post, subscriber, searchTerm string) {
	channel, err := s.UserChannelCreate(subscriber)
	if err != nil {
		log.Printf("Failed to open channel to %s: %v", subscriber, err)
		return
	}
	for _, post := range posts {
		if _, err := s.ChannelMessageSend(channel.ID, BuildFromPost(post, searchTerm)); err != nil {
			log.Printf("Failed to deliver post %q to %s: %v", post.Title, subscriber, err)
		}
	}
}
