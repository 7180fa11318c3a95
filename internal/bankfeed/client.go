package bankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"restobook/recon/internal/logging"
)

// Client is a thin HTTP client for the Open Banking provider. The OAuth
// session handshake happens elsewhere; the client only consumes an existing
// session id and bearer token.
type Client struct {
	baseURL   string
	token     string
	sessionID string
	http      *http.Client
	log       logging.Logger
}

// NewClient creates a feed client.
func NewClient(baseURL, token, sessionID string, log logging.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		token:     token,
		sessionID: sessionID,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Session-ID", c.sessionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.WithFields(
			logging.F("path", path),
			logging.F("status", resp.StatusCode),
		).Error("Bank feed request failed")
		return fmt.Errorf("bank feed %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// FetchTransactions retrieves the transactions of an account.
func (c *Client) FetchTransactions(ctx context.Context, accountUID string) (TransactionsResponse, error) {
	var out TransactionsResponse
	err := c.get(ctx, "/accounts/"+accountUID+"/transactions", &out)
	return out, err
}

// FetchBalances retrieves the reported balances of an account.
func (c *Client) FetchBalances(ctx context.Context, accountUID string) (BalancesResponse, error) {
	var out BalancesResponse
	err := c.get(ctx, "/accounts/"+accountUID+"/balances", &out)
	return out, err
}
