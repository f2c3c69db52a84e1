package pshb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeSendsHandshakeForm(t *testing.T) {
	viper.Set("hub.timeout", 5*time.Second)

	var got map[string]string
	hub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"hub.mode":     r.PostFormValue("hub.mode"),
			"hub.topic":    r.PostFormValue("hub.topic"),
			"hub.callback": r.PostFormValue("hub.callback"),
			"hub.verify":   r.PostFormValue("hub.verify"),
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hub.Close()

	h := NewHTTPHubSubscriber()
	err := h.Subscribe(context.Background(),
		"https://example.com/activities/track?q=golang",
		hub.URL,
		"http://app.example.com/posts?id=1",
	)
	require.NoError(t, err)

	assert.Equal(t, "subscribe", got["hub.mode"])
	assert.Equal(t, "https://example.com/activities/track?q=golang", got["hub.topic"])
	assert.Equal(t, "http://app.example.com/posts?id=1", got["hub.callback"])
	assert.Equal(t, "async", got["hub.verify"])
}

func TestUnsubscribeSendsMode(t *testing.T) {
	viper.Set("hub.timeout", 5*time.Second)

	var mode string
	hub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mode = r.PostFormValue("hub.mode")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hub.Close()

	h := NewHTTPHubSubscriber()
	require.NoError(t, h.Unsubscribe(context.Background(), "topic", hub.URL, "callback"))
	assert.Equal(t, "unsubscribe", mode)
}

func TestSubscribeReportsHubError(t *testing.T) {
	viper.Set("hub.timeout", 5*time.Second)

	hub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such topic", http.StatusBadRequest)
	}))
	defer hub.Close()

	h := NewHTTPHubSubscriber()
	err := h.Subscribe(context.Background(), "topic", hub.URL, "callback")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
}
