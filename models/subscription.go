package models

// Subscription is one tracked search term for one subscriber.
type Subscription struct {
	ID         int64  `db:"id"`          // assigned by the store on creation
	URL        string `db:"url"`         // upstream topic being watched
	SearchTerm string `db:"search_term"` // never blank
	Subscriber string `db:"subscriber"`  // chat address without the session suffix
}

// Equal reports whether two subscriptions are the same record. Identity is
// the store-assigned id; a nil record never equals anything.
func (s *Subscription) Equal(other *Subscription) bool {
	if s == nil || other == nil {
		return false
	}
	return s.ID == other.ID
}

// Post is one content item extracted from a hub push.
type Post struct {
	Title string
	URL   string
}

// Token is a linked posting credential for one chat user. The key and
// secret are stored as separate columns, never as a serialized blob.
type Token struct {
	UserID    string `db:"user_id"`
	APIKey    string `db:"api_key"`
	APISecret string `db:"api_secret"`
	LinkedAt  int64  `db:"linked_at"` // Unix timestamp
}

// Linked reports whether the token carries a usable credential.
func (t *Token) Linked() bool {
	return t != nil && t.APIKey != ""
}
