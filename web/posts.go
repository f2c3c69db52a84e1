package web

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/viper"

	"tracker-bot/notify"
	"tracker-bot/pshb"
	"tracker-bot/tracker"
)

const maxPushBytes = 1 << 20 // hub pushes larger than 1 MiB are refused

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleChallenge(w, r)
	case http.MethodPost:
		s.handlePush(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleChallenge answers the hub's subscription verification request. The
// challenge must be echoed back byte for byte; anything else breaks the
// confirmation handshake.
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	challenge := query.Get("hub.challenge")
	if challenge == "" {
		return
	}
	topic := query.Get("hub.topic")

	exists := false
	if id, ok := tracker.ExtractNumber(query.Get("id")); ok {
		var err error
		exists, err = s.Subs.Exists(id)
		if err != nil {
			log.Printf("Challenge lookup failed for id %d: %v", id, err)
		}
	}

	if query.Get("hub.mode") == "subscribe" && exists {
		io.WriteString(w, challenge)
		log.Printf("Successfully accepted challenge for feed: %s", topic)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "Challenge failed")
	log.Printf("Challenge failed for feed: %s", topic)
}

// handlePush receives a content push from the hub, validates it and fans
// the posts out to the owning subscriber.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	id, ok := tracker.ExtractNumber(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Unknown subscription", http.StatusNotFound)
		return
	}
	sub, err := s.Subs.GetByID(id)
	if err != nil {
		http.Error(w, "Subscription lookup failed", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		http.Error(w, "Unknown subscription", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPushBytes))
	if err != nil {
		http.Error(w, "Unreadable body", http.StatusBadRequest)
		return
	}

	parser := pshb.NewContentParser(string(body),
		viper.GetString("hub.default"), viper.GetBool("hub.alwaysUseDefault"))
	if !parser.DataValid() {
		parser.LogErrors()
		// Deliberately a success status: an error code would make the hub
		// retry the same bad payload. The body still carries the report.
		fmt.Fprintf(w, "Bad entries: %s", errors.Join(parser.Errors()...))
		return
	}

	posts := parser.ExtractPosts()
	log.Printf("Successfully received %d posts for subscription: %s", len(posts), parser.ExtractFeedURL())
	notify.SendPosts(s.Sender, posts, sub.Subscriber, sub.SearchTerm)
	w.WriteHeader(http.StatusOK)
}
