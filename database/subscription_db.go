package database

import (
	"database/sql"
	"fmt"

	"tracker-bot/models"
)

// SubscriptionDB provides access to persisted subscriptions. It is safe for
// concurrent use; database/sql serializes access per connection.
type SubscriptionDB struct {
	DB *sql.DB
}

// Insert persists a new subscription and fills in the store-assigned id.
func (s *SubscriptionDB) Insert(sub *models.Subscription) error {
	res, err := s.DB.Exec(
		`INSERT INTO subscriptions (url, search_term, subscriber) VALUES (?, ?, ?)`,
		sub.URL, sub.SearchTerm, sub.Subscriber,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read assigned subscription id: %w", err)
	}
	sub.ID = id
	return nil
}

// GetByID returns the subscription with the given id, or nil when absent.
func (s *SubscriptionDB) GetByID(id int64) (*models.Subscription, error) {
	row := s.DB.QueryRow(
		`SELECT id, url, search_term, subscriber FROM subscriptions WHERE id = ?`, id,
	)
	sub := &models.Subscription{}
	err := row.Scan(&sub.ID, &sub.URL, &sub.SearchTerm, &sub.Subscriber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription %d: %w", id, err)
	}
	return sub, nil
}

// Exists reports whether a subscription with the given id is stored.
func (s *SubscriptionDB) Exists(id int64) (bool, error) {
	var n int
	err := s.DB.QueryRow(`SELECT COUNT(1) FROM subscriptions WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription %d: %w", id, err)
	}
	return n > 0, nil
}

// Delete removes the subscription with the given id. Deleting an absent id
// is not an error.
func (s *SubscriptionDB) Delete(id int64) error {
	if _, err := s.DB.Exec(`DELETE FROM subscriptions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete subscription %d: %w", id, err)
	}
	return nil
}

// GetBySubscriber returns the subscriber's subscriptions ordered by id.
func (s *SubscriptionDB) GetBySubscriber(subscriber string) ([]*models.Subscription, error) {
	rows, err := s.DB.Query(
		`SELECT id, url, search_term, subscriber FROM subscriptions WHERE subscriber = ? ORDER BY id`,
		subscriber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions for %s: %w", subscriber, err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

// All returns every stored subscription ordered by id. Used for hub lease
// renewal.
func (s *SubscriptionDB) All() ([]*models.Subscription, error) {
	rows, err := s.DB.Query(`SELECT id, url, search_term, subscriber FROM subscriptions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func scanSubscriptions(rows *sql.Rows) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		if err := rows.Scan(&sub.ID, &sub.URL, &sub.SearchTerm, &sub.Subscriber); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}
	return subs, nil
}
