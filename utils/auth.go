package utils

import (
	"tracker-bot/models"
)

// TokenSource looks up linked posting credentials.
type TokenSource interface {
	Get(userID string) (*models.Token, error)
}

// Auth answers authorization questions for command handlers.
type Auth struct {
	tokens TokenSource
}

// NewAuth creates an Auth instance over the given credential store.
func NewAuth(tokens TokenSource) *Auth {
	return &Auth{tokens: tokens}
}

// LinkedToken returns the user's posting credential, or nil when the user
// has not linked one.
func (a *Auth) LinkedToken(userID string) (*models.Token, error) {
	token, err := a.tokens.Get(userID)
	if err != nil {
		return nil, err
	}
	if !token.Linked() {
		return nil, nil
	}
	return token, nil
}
