// Package jmap implements the mail-provider port against a JMAP server
// such as Fastmail.
package jmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// queryLimit caps the number of messages fetched per window
const queryLimit = 50

const mailCapability = "urn:ietf:params:jmap:mail"

// Client is a MailClient implementation backed by a JMAP mail server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.Mutex
	accountID string
}

// NewClient creates a new JMAP client. baseURL is the root of the JMAP
// endpoint, e.g. https://api.fastmail.com/jmap.
func NewClient(baseURL, token string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ListMailboxes retrieves a snapshot of all mailboxes in the account
func (c *Client) ListMailboxes(ctx context.Context) ([]core.Mailbox, error) {
	accountID, err := c.primaryAccountID(ctx)
	if err != nil {
		return nil, err
	}

	args, err := json.Marshal(map[string]interface{}{
		"accountId":  accountID,
		"properties": []string{"id", "name", "role"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Mailbox/get arguments: %w", err)
	}

	responses, err := c.call(ctx, []Invocation{
		{Name: "Mailbox/get", Args: args, ID: "mailboxes"},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		List []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"list"`
	}
	if err := c.findResponse(responses, "Mailbox/get", "mailboxes", &result); err != nil {
		return nil, err
	}

	mailboxes := make([]core.Mailbox, len(result.List))
	for i, mb := range result.List {
		mailboxes[i] = core.Mailbox{ID: mb.ID, Name: mb.Name, Role: mb.Role}
	}
	return mailboxes, nil
}

// FetchEmails retrieves envelopes received within [start, end), newest
// first, excluding messages that live only in the excluded mailboxes.
// The Email/get call consumes the id list of the Email/query call via a
// JMAP back-reference.
func (c *Client) FetchEmails(ctx context.Context, start, end time.Time, excludedMailboxIDs []string) ([]core.Email, error) {
	accountID, err := c.primaryAccountID(ctx)
	if err != nil {
		return nil, err
	}

	queryArgs, err := json.Marshal(map[string]interface{}{
		"accountId": accountID,
		"filter": queryFilter{
			After:              start.UTC().Format(time.RFC3339),
			Before:             end.UTC().Format(time.RFC3339),
			InMailboxOtherThan: excludedMailboxIDs,
		},
		"sort":  []querySort{{Property: "receivedAt", IsAscending: false}},
		"limit": queryLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Email/query arguments: %w", err)
	}

	getArgs, err := json.Marshal(map[string]interface{}{
		"accountId": accountID,
		"#ids": resultReference{
			ResultOf: "a",
			Name:     "Email/query",
			Path:     "/ids",
		},
		"properties": []string{"id", "subject", "from", "receivedAt", "preview", "textBody", "mailboxIds"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Email/get arguments: %w", err)
	}

	responses, err := c.call(ctx, []Invocation{
		{Name: "Email/query", Args: queryArgs, ID: "a"},
		{Name: "Email/get", Args: getArgs, ID: "b"},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		List []emailRecord `json:"list"`
	}
	if err := c.findResponse(responses, "Email/get", "b", &result); err != nil {
		return nil, err
	}

	emails := make([]core.Email, len(result.List))
	for i, rec := range result.List {
		emails[i] = rec.toEmail()
	}
	return emails, nil
}

// emailRecord is the Email/get wire shape for the properties requested
type emailRecord struct {
	ID         string              `json:"id"`
	Subject    string              `json:"subject"`
	From       []core.EmailAddress `json:"from"`
	ReceivedAt time.Time           `json:"receivedAt"`
	Preview    string              `json:"preview"`
	TextBody   json.RawMessage     `json:"textBody"`
	MailboxIDs map[string]bool     `json:"mailboxIds"`
}

func (rec *emailRecord) toEmail() core.Email {
	email := core.Email{
		ID:         rec.ID,
		Subject:    rec.Subject,
		From:       rec.From,
		ReceivedAt: rec.ReceivedAt,
		Preview:    rec.Preview,
		MailboxIDs: rec.MailboxIDs,
	}
	// JMAP returns textBody as body-part metadata unless bodyValues are
	// requested; only a plain string is carried through.
	var body string
	if err := json.Unmarshal(rec.TextBody, &body); err == nil {
		email.TextBody = body
	}
	return email
}

// primaryAccountID resolves the mail account id from the JMAP session
// resource, caching it for the lifetime of the client
func (c *Client) primaryAccountID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accountID != "" {
		return c.accountID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch JMAP session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("JMAP session request failed with status %d: %s", resp.StatusCode, body)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("failed to decode JMAP session: %w", err)
	}

	accountID := session.PrimaryAccounts[mailCapability]
	if accountID == "" {
		return "", fmt.Errorf("could not determine account id from JMAP session")
	}

	c.logger.Debug("Resolved JMAP primary account", zap.String("account_id", accountID))
	c.accountID = accountID
	return accountID, nil
}

// call posts a batch of method calls to the JMAP API endpoint
func (c *Client) call(ctx context.Context, calls []Invocation) ([]Invocation, error) {
	payload, err := json.Marshal(apiRequest{
		Using:       usingCapabilities,
		MethodCalls: calls,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JMAP request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create JMAP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("JMAP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("JMAP request failed with status %d: %s", resp.StatusCode, body)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode JMAP response: %w", err)
	}
	return apiResp.MethodResponses, nil
}

// findResponse locates the method response matching name and call id and
// decodes its arguments into out. A JMAP "error" response for the same
// call id fails the whole fetch.
func (c *Client) findResponse(responses []Invocation, name, callID string, out interface{}) error {
	for _, resp := range responses {
		if resp.ID != callID {
			continue
		}
		if resp.Name == "error" {
			var merr methodError
			if err := json.Unmarshal(resp.Args, &merr); err != nil {
				return fmt.Errorf("%s returned a malformed error response", name)
			}
			return fmt.Errorf("%s failed: %s (%s)", name, merr.Type, merr.Description)
		}
		if resp.Name != name {
			continue
		}
		if err := json.Unmarshal(resp.Args, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("JMAP response missing %s result", name)
}
