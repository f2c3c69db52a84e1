package models

import (
	"strings"
	"sync"
	"unicode"
)

// Message is one inbound chat message. The command split happens at most
// once per instance and the result is cached for later reads.
type Message struct {
	Sender string // raw sender address, may carry a /session suffix
	Body   string

	parse sync.Once
	name  string
	arg   string
}

// Command returns the leading token of the body and the trimmed remainder.
// Both are empty when the body contains no non-whitespace characters.
func (m *Message) Command() (name, arg string) {
	m.parse.Do(func() {
		body := strings.TrimSpace(m.Body)
		if body == "" {
			return
		}
		if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
			m.name = body[:i]
			m.arg = strings.TrimSpace(body[i:])
		} else {
			m.name = body
		}
	})
	return m.name, m.arg
}
