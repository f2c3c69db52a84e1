package database

import (
	"database/sql"
	"fmt"
	"time"

	"tracker-bot/models"
)

// TokenDB stores linked posting credentials, one per chat user.
type TokenDB struct {
	DB *sql.DB
}

// Save links or replaces the credential for token.UserID.
func (t *TokenDB) Save(token *models.Token) error {
	if token.LinkedAt == 0 {
		token.LinkedAt = time.Now().Unix()
	}
	_, err := t.DB.Exec(
		`INSERT OR REPLACE INTO tokens (user_id, api_key, api_secret, linked_at) VALUES (?, ?, ?, ?)`,
		token.UserID, token.APIKey, token.APISecret, token.LinkedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save token for %s: %w", token.UserID, err)
	}
	return nil
}

// Get returns the credential linked to userID, or nil when none is linked.
func (t *TokenDB) Get(userID string) (*models.Token, error) {
	row := t.DB.QueryRow(
		`SELECT user_id, api_key, api_secret, linked_at FROM tokens WHERE user_id = ?`, userID,
	)
	token := &models.Token{}
	err := row.Scan(&token.UserID, &token.APIKey, &token.APISecret, &token.LinkedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token for %s: %w", userID, err)
	}
	return token, nil
}

// Delete unlinks the credential for userID.
func (t *TokenDB) Delete(userID string) error {
	if _, err := t.DB.Exec(`DELETE FROM tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete token for %s: %w", userID, err)
	}
	return nil
}
