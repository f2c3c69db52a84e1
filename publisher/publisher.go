package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/spf13/viper"

	"tracker-bot/models"
)

// Poster publishes user-authored text through the external content API.
type Poster interface {
	Post(ctx context.Context, token *models.Token, text string) error
}

// Client posts over HTTP using the subscriber's linked credential.
type Client struct {
	url    string
	client *http.Client
}

// NewClient returns a client for the configured posting endpoint
// (publisher.url).
func NewClient() *Client {
	return &Client{
		url:    viper.GetString("publisher.url"),
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Post publishes text as a new content item owned by the token's user.
func (c *Client) Post(ctx context.Context, token *models.Token, text string) error {
	if !token.Linked() {
		return fmt.Errorf("no linked credential for user")
	}

	body, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return fmt.Errorf("encode post body: %w", err)
	}

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Api-Key", token.APIKey)
			req.Header.Set("X-Api-Secret", token.APISecret)

			res, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer res.Body.Close()
			io.Copy(io.Discard, res.Body)

			if res.StatusCode >= http.StatusMultipleChoices {
				return fmt.Errorf("posting API returned HTTP %d", res.StatusCode)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("publishing post: %w", err)
	}
	return nil
}
