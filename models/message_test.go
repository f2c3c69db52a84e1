package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageCommand(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantName string
		wantArg  string
	}{
		{name: "command only", body: "help", wantName: "help", wantArg: ""},
		{name: "command with argument", body: "track golang", wantName: "track", wantArg: "golang"},
		{name: "argument keeps internal whitespace", body: "track some  spaced term", wantName: "track", wantArg: "some  spaced term"},
		{name: "leading whitespace skipped", body: "   track golang", wantName: "track", wantArg: "golang"},
		{name: "trailing whitespace trimmed", body: "track golang   ", wantName: "track", wantArg: "golang"},
		{name: "tabs count as separators", body: "untrack\t42", wantName: "untrack", wantArg: "42"},
		{name: "empty body", body: "", wantName: "", wantArg: ""},
		{name: "whitespace only", body: "   \t  ", wantName: "", wantArg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{Body: tt.body}
			name, arg := m.Command()
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestMessageCommandIsCached(t *testing.T) {
	m := &Message{Body: "track golang"}
	name, arg := m.Command()
	assert.Equal(t, "track", name)
	assert.Equal(t, "golang", arg)

	// The split is computed once per instance. Later body changes must not
	// change the result.
	m.Body = "untrack 7"
	name, arg = m.Command()
	assert.Equal(t, "track", name)
	assert.Equal(t, "golang", arg)
}

func TestSubscriptionEqual(t *testing.T) {
	a := &Subscription{ID: 1, SearchTerm: "golang"}
	b := &Subscription{ID: 1, SearchTerm: "something else"}
	c := &Subscription{ID: 2, SearchTerm: "golang"}

	assert.True(t, a.Equal(b), "same id means same subscription")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil), "a missing record is never equal")
	var missing *Subscription
	assert.False(t, missing.Equal(a))
}

func TestTokenLinked(t *testing.T) {
	var missing *Token
	assert.False(t, missing.Linked())
	assert.False(t, (&Token{UserID: "u1"}).Linked())
	assert.True(t, (&Token{UserID: "u1", APIKey: "key", APISecret: "secret"}).Linked())
}
