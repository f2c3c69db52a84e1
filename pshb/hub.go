package pshb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/spf13/viper"
)

// HubSubscriber initiates the subscribe/unsubscribe handshake with a
// publish/subscribe hub. The hub confirms out of band by calling back the
// given callback URL with a challenge.
type HubSubscriber interface {
	Subscribe(ctx context.Context, topic, hub, callback string) error
	Unsubscribe(ctx context.Context, topic, hub, callback string) error
}

// HTTPHubSubscriber performs the handshake against a real hub over HTTP.
type HTTPHubSubscriber struct {
	client *http.Client
}

// NewHTTPHubSubscriber returns a hub subscriber with the configured request
// timeout (hub.timeout).
func NewHTTPHubSubscriber() *HTTPHubSubscriber {
	return &HTTPHubSubscriber{
		client: &http.Client{Timeout: viper.GetDuration("hub.timeout")},
	}
}

// Subscribe asks the hub to start pushing content for topic to callback.
func (h *HTTPHubSubscriber) Subscribe(ctx context.Context, topic, hub, callback string) error {
	return h.request(ctx, "subscribe", topic, hub, callback)
}

// Unsubscribe asks the hub to stop pushing content for topic to callback.
func (h *HTTPHubSubscriber) Unsubscribe(ctx context.Context, topic, hub, callback string) error {
	return h.request(ctx, "unsubscribe", topic, hub, callback)
}

func (h *HTTPHubSubscriber) request(ctx context.Context, mode, topic, hub, callback string) error {
	form := url.Values{
		"hub.mode":     {mode},
		"hub.topic":    {topic},
		"hub.callback": {callback},
		"hub.verify":   {"async"},
	}

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, hub, strings.NewReader(form.Encode()))
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			res, err := h.client.Do(req)
			if err != nil {
				return err
			}
			defer res.Body.Close()
			io.Copy(io.Discard, res.Body)

			if res.StatusCode >= http.StatusMultipleChoices {
				return fmt.Errorf("hub returned HTTP %d for %s of %s", res.StatusCode, mode, topic)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("hub %s handshake failed: %w", mode, err)
	}
	return nil
}

// StubHubSubscriber records the last handshake call. It exists so the
// tracker can be exercised without network access.
type StubHubSubscriber struct {
	Mode        string
	Topic       string
	Hub         string
	CallbackURL string
	Calls       int
	Err         error // returned from both methods when set
}

func (s *StubHubSubscriber) Subscribe(ctx context.Context, topic, hub, callback string) error {
	s.record("subscribe", topic, hub, callback)
	return s.Err
}

func (s *StubHubSubscriber) Unsubscribe(ctx context.Context, topic, hub, callback string) error {
	s.record("unsubscribe", topic, hub, callback)
	return s.Err
}

func (s *StubHubSubscriber) record(mode, topic, hub, callback string) {
	s.Mode = mode
	s.Topic = topic
	s.Hub = hub
	s.CallbackURL = callback
	s.Calls++
}
