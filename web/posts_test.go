package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker-bot/models"
)

type fakeSubs struct {
	subs map[int64]*models.Subscription
}

func (f *fakeSubs) GetByID(id int64) (*models.Subscription, error) {
	return f.subs[id], nil
}

func (f *fakeSubs) Exists(id int64) (bool, error) {
	_, ok := f.subs[id]
	return ok, nil
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (f *fakeSender) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, channelID+": "+content)
	return &discordgo.Message{Content: content}, nil
}

const pushFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Track results</title>
  <id>urn:feed:track</id>
  <updated>2026-08-01T00:00:00Z</updated>
  <entry>
    <title>First match</title>
    <link href="https://example.com/posts/1"/>
    <id>urn:post:1</id>
    <updated>2026-08-01T00:00:00Z</updated>
  </entry>
  <entry>
    <title>Second match</title>
    <link href="https://example.com/posts/2"/>
    <id>urn:post:2</id>
    <updated>2026-08-01T00:01:00Z</updated>
  </entry>
</feed>`

const badPushFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Track results</title>
  <id>urn:feed:track</id>
  <updated>2026-08-01T00:00:00Z</updated>
  <entry>
    <link href="https://example.com/posts/1"/>
    <id>urn:post:1</id>
    <updated>2026-08-01T00:00:00Z</updated>
  </entry>
</feed>`

func newTestServer() (*Server, *fakeSender) {
	viper.Set("server.addr", ":0")
	viper.Set("hub.default", "https://hub.example.com/")
	viper.Set("hub.alwaysUseDefault", false)

	sender := &fakeSender{}
	subs := &fakeSubs{subs: map[int64]*models.Subscription{
		1: {ID: 1, URL: "topic", SearchTerm: "golang", Subscriber: "foo@example.com"},
	}}
	return NewServer(subs, sender), sender
}

func getChallenge(s *Server, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/posts?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	s.handlePosts(w, req)
	return w
}

func TestChallengeEchoedVerbatim(t *testing.T) {
	s, _ := newTestServer()

	w := getChallenge(s, url.Values{
		"id":            {"1"},
		"hub.challenge": {"tok-123&x=%20y"},
		"hub.mode":      {"subscribe"},
		"hub.topic":     {"topic"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-123&x=%20y", w.Body.String(), "challenge must echo byte for byte")
}

func TestChallengeUnknownSubscription(t *testing.T) {
	s, _ := newTestServer()

	w := getChallenge(s, url.Values{
		"id":            {"99"},
		"hub.challenge": {"tok"},
		"hub.mode":      {"subscribe"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Challenge failed", w.Body.String())
}

func TestChallengeWrongMode(t *testing.T) {
	s, _ := newTestServer()

	w := getChallenge(s, url.Values{
		"id":            {"1"},
		"hub.challenge": {"tok"},
		"hub.mode":      {"unsubscribe"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Challenge failed", w.Body.String())
}

func TestPushDeliversPostsInOrder(t *testing.T) {
	s, sender := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/posts?id=1", strings.NewReader(pushFeed))
	w := httptest.NewRecorder()
	s.handlePosts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String(), "successful push has an empty body")

	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0], "dm-foo@example.com")
	assert.Contains(t, sender.sent[0], "First match")
	assert.Contains(t, sender.sent[0], "golang matched")
	assert.Contains(t, sender.sent[1], "Second match")
}

func TestPushInvalidEntriesAreReportedNotDelivered(t *testing.T) {
	s, sender := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/posts?id=1", strings.NewReader(badPushFeed))
	w := httptest.NewRecorder()
	s.handlePosts(w, req)

	// A success status on purpose, so the hub does not retry the same bad
	// payload. The body carries the diagnostic.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bad entries:")
	assert.Contains(t, w.Body.String(), "missing title")
	assert.Empty(t, sender.sent, "no partial delivery")
}

func TestPushUnknownSubscription(t *testing.T) {
	s, sender := newTestServer()

	for _, id := range []string{"99", "notanumber", ""} {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts?id=%s", id), strings.NewReader(pushFeed))
		w := httptest.NewRecorder()
		s.handlePosts(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "id %q", id)
	}
	assert.Empty(t, sender.sent)
}

func TestChallengeWithoutTokenIsIgnored(t *testing.T) {
	s, _ := newTestServer()

	w := getChallenge(s, url.Values{"id": {"1"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handleHealth(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
