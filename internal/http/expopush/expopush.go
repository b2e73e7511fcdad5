package expopush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client talks to the Expo push gateway. Delivery is fire-and-forget: the
// response is checked for transport-level success only, no receipts are
// consumed.
type Client struct {
	URL    string
	Client *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type pushRequest struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send delivers one notification to the given Expo push token.
func (c *Client) Send(ctx context.Context, token, title, body string) error {
	if token == "" {
		return nil
	}

	payload, err := json.Marshal(pushRequest{To: token, Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("Expo push request failed with status %d: %s\n", resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("expo push error: status code %d", resp.StatusCode)
	}

	return nil
}
