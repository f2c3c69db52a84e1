package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"tracker-bot/models"
	"tracker-bot/pshb"
)

var (
	// ErrRejected means the input could not make a subscription at all,
	// such as a blank search term.
	ErrRejected = errors.New("invalid track request")

	// ErrNotFound covers both a missing subscription and one owned by
	// someone else. The two cases are deliberately indistinguishable to the
	// caller.
	ErrNotFound = errors.New("no such subscription")
)

// Store is the slice of the subscription store the tracker needs.
type Store interface {
	Insert(sub *models.Subscription) error
	GetByID(id int64) (*models.Subscription, error)
	Delete(id int64) error
}

// Tracker drives the subscription lifecycle: create a record and start the
// hub handshake on track, delete the record and stop the handshake on
// untrack. The handshake is best effort; its failure never rolls back the
// store mutation.
type Tracker struct {
	store         Store
	hub           pshb.HubSubscriber
	baseURL       string
	hubURL        string
	topicTemplate string
}

// New returns a tracker over the given store and hub client, reading its
// URLs from configuration (app.baseUrl, hub.url, hub.topicTemplate).
func New(store Store, hub pshb.HubSubscriber) *Tracker {
	return &Tracker{
		store:         store,
		hub:           hub,
		baseURL:       viper.GetString("app.baseUrl"),
		hubURL:        viper.GetString("hub.url"),
		topicTemplate: viper.GetString("hub.topicTemplate"),
	}
}

// IsBlank reports whether s is empty or whitespace-only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ExtractNumber parses a decimal id out of s. It returns false when s,
// after trimming, is empty or contains any non-digit character.
func ExtractNumber(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// subscriberAddress strips the client/session suffix from a raw sender
// address: "foo@example.com/Client" becomes "foo@example.com".
func subscriberAddress(sender string) string {
	if i := strings.Index(sender, "/"); i >= 0 {
		return sender[:i]
	}
	return sender
}

// Track creates a subscription for the sender's search term and asks the
// hub to start pushing matches. Blank search terms are rejected before
// anything is persisted.
func (t *Tracker) Track(ctx context.Context, sender, searchTerm string) (*models.Subscription, error) {
	if IsBlank(searchTerm) {
		return nil, ErrRejected
	}
	searchTerm = strings.TrimSpace(searchTerm)
	subscriber := subscriberAddress(sender)

	topic := t.buildTopicURL(searchTerm)
	log.Printf("Subscribing to: %s for user: %s", topic, subscriber)

	sub := &models.Subscription{URL: topic, SearchTerm: searchTerm, Subscriber: subscriber}
	if err := t.store.Insert(sub); err != nil {
		return nil, fmt.Errorf("persisting subscription: %w", err)
	}

	callback := t.CallbackURL(sub.ID)
	log.Printf("Callback URL was: %s", callback)
	if err := t.hub.Subscribe(ctx, topic, t.hubURL, callback); err != nil {
		// Best effort: the stored subscription stays. The hub can still be
		// reached on the next lease renewal.
		log.Printf("Hub subscribe failed for %s: %v", topic, err)
	}
	return sub, nil
}

// Untrack deletes the sender's subscription with the given id and asks the
// hub to stop pushing. Non-numeric ids, unknown ids and ids owned by other
// subscribers all report ErrNotFound.
func (t *Tracker) Untrack(ctx context.Context, sender, idText string) (*models.Subscription, error) {
	id, ok := ExtractNumber(idText)
	if !ok {
		return nil, ErrNotFound
	}

	sub, err := t.store.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("looking up subscription %d: %w", id, err)
	}
	if sub == nil || sub.Subscriber != subscriberAddress(sender) {
		return nil, ErrNotFound
	}

	if err := t.store.Delete(id); err != nil {
		return nil, fmt.Errorf("deleting subscription %d: %w", id, err)
	}

	callback := t.CallbackURL(id)
	log.Printf("Callback URL was: %s", callback)
	if err := t.hub.Unsubscribe(ctx, sub.URL, t.hubURL, callback); err != nil {
		// Best effort, same as Track. The record is already gone.
		log.Printf("Hub unsubscribe failed for %s: %v", sub.URL, err)
	}
	return sub, nil
}

// Renew re-issues the subscribe handshake for an existing subscription so
// its hub lease does not lapse.
func (t *Tracker) Renew(ctx context.Context, sub *models.Subscription) error {
	return t.hub.Subscribe(ctx, sub.URL, t.hubURL, t.CallbackURL(sub.ID))
}

// CallbackURL returns the push address registered with the hub for the
// given subscription id. It must stay reproducible from the id alone: the
// same URL is the lookup key for inbound pushes.
func (t *Tracker) CallbackURL(id int64) string {
	return fmt.Sprintf("%s/posts?id=%d", t.baseURL, id)
}

func (t *Tracker) buildTopicURL(searchTerm string) string {
	// Spaces must encode as %20, not +, to match what the upstream feed
	// expects in its query string.
	escaped := strings.ReplaceAll(url.QueryEscape(searchTerm), "+", "%20")
	return fmt.Sprintf(t.topicTemplate, escaped)
}
