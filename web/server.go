package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"tracker-bot/models"
	"tracker-bot/notify"
)

// SubscriptionSource is the read side of the subscription store the
// callback endpoints need.
type SubscriptionSource interface {
	GetByID(id int64) (*models.Subscription, error)
	Exists(id int64) (bool, error)
}

// Server hosts the hub-facing callback endpoints.
type Server struct {
	Subs   SubscriptionSource
	Sender notify.Sender

	srv *http.Server
}

// NewServer builds the HTTP server on the configured address
// (server.addr).
func NewServer(subs SubscriptionSource, sender notify.Sender) *Server {
	s := &Server{Subs: subs, Sender: sender}

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", s.handlePosts)
	mux.HandleFunc("/health", handleHealth)

	s.srv = &http.Server{
		Addr:         viper.GetString("server.addr"),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		log.Printf("HTTP server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()
}

// Stop shuts the server down, waiting for in-flight requests.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
