package jmap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeJMAPServer serves the session resource and a canned API response,
// capturing the last API request for assertions
type fakeJMAPServer struct {
	t           *testing.T
	apiResponse string
	apiStatus   int
	lastRequest *apiRequest
}

func (f *fakeJMAPServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /session", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"primaryAccounts": {"urn:ietf:params:jmap:mail": "acc-1"}}`))
	})
	mux.HandleFunc("POST /api/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "Bearer test-token", r.Header.Get("Authorization"))
		var req apiRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.lastRequest = &req

		status := f.apiStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(f.apiResponse))
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeJMAPServer) (*Client, func()) {
	ts := httptest.NewServer(fake.handler())
	client := NewClient(ts.URL, "test-token", ts.Client(), zap.NewNop())
	return client, ts.Close
}

func TestListMailboxes(t *testing.T) {
	fake := &fakeJMAPServer{
		t: t,
		apiResponse: `{"methodResponses": [
			["Mailbox/get", {"list": [
				{"id": "mb-1", "name": "Inbox", "role": "inbox"},
				{"id": "mb-2", "name": "Marketing", "role": null}
			]}, "mailboxes"]
		]}`,
	}
	client, done := newTestClient(t, fake)
	defer done()

	mailboxes, err := client.ListMailboxes(context.Background())

	require.NoError(t, err)
	require.Len(t, mailboxes, 2)
	assert.Equal(t, core.Mailbox{ID: "mb-1", Name: "Inbox", Role: "inbox"}, mailboxes[0])
	assert.Equal(t, core.Mailbox{ID: "mb-2", Name: "Marketing"}, mailboxes[1])

	require.NotNil(t, fake.lastRequest)
	assert.Equal(t, usingCapabilities, fake.lastRequest.Using)
	require.Len(t, fake.lastRequest.MethodCalls, 1)
	assert.Equal(t, "Mailbox/get", fake.lastRequest.MethodCalls[0].Name)

	var args map[string]interface{}
	require.NoError(t, json.Unmarshal(fake.lastRequest.MethodCalls[0].Args, &args))
	assert.Equal(t, "acc-1", args["accountId"])
}

func TestFetchEmailsRequestShape(t *testing.T) {
	fake := &fakeJMAPServer{
		t: t,
		apiResponse: `{"methodResponses": [
			["Email/query", {"ids": ["m1", "m2"]}, "a"],
			["Email/get", {"list": [
				{"id": "m1", "subject": "Newer", "from": [{"name": "A", "email": "a@x.com"}],
				 "receivedAt": "2025-12-18T10:00:00Z", "preview": "p1", "mailboxIds": {"mb-1": true}},
				{"id": "m2", "subject": "Older", "from": [{"name": "B", "email": "b@x.com"}],
				 "receivedAt": "2025-12-18T08:00:00Z", "preview": "p2", "mailboxIds": {"mb-1": true}}
			]}, "b"]
		]}`,
	}
	client, done := newTestClient(t, fake)
	defer done()

	start := time.Date(2025, 12, 18, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 18, 12, 0, 0, 0, time.UTC)
	emails, err := client.FetchEmails(context.Background(), start, end, []string{"mb-spam", "mb-marketing"})

	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "m1", emails[0].ID)
	assert.Equal(t, "a@x.com", emails[0].SenderEmail())
	assert.True(t, emails[0].ReceivedAt.After(emails[1].ReceivedAt))

	require.NotNil(t, fake.lastRequest)
	require.Len(t, fake.lastRequest.MethodCalls, 2)

	var queryArgs struct {
		AccountID string      `json:"accountId"`
		Filter    queryFilter `json:"filter"`
		Sort      []querySort `json:"sort"`
		Limit     int         `json:"limit"`
	}
	require.Equal(t, "Email/query", fake.lastRequest.MethodCalls[0].Name)
	require.NoError(t, json.Unmarshal(fake.lastRequest.MethodCalls[0].Args, &queryArgs))
	assert.Equal(t, "acc-1", queryArgs.AccountID)
	assert.Equal(t, "2025-12-18T00:00:00Z", queryArgs.Filter.After)
	assert.Equal(t, "2025-12-18T12:00:00Z", queryArgs.Filter.Before)
	assert.Equal(t, []string{"mb-spam", "mb-marketing"}, queryArgs.Filter.InMailboxOtherThan)
	assert.Equal(t, 50, queryArgs.Limit)
	require.Len(t, queryArgs.Sort, 1)
	assert.Equal(t, "receivedAt", queryArgs.Sort[0].Property)
	assert.False(t, queryArgs.Sort[0].IsAscending)

	var getArgs struct {
		IDsRef     resultReference `json:"#ids"`
		Properties []string        `json:"properties"`
	}
	require.Equal(t, "Email/get", fake.lastRequest.MethodCalls[1].Name)
	require.NoError(t, json.Unmarshal(fake.lastRequest.MethodCalls[1].Args, &getArgs))
	assert.Equal(t, resultReference{ResultOf: "a", Name: "Email/query", Path: "/ids"}, getArgs.IDsRef)
	assert.Contains(t, getArgs.Properties, "preview")
	assert.Contains(t, getArgs.Properties, "mailboxIds")
}

func TestFetchEmailsOmitsEmptyExclusion(t *testing.T) {
	fake := &fakeJMAPServer{
		t: t,
		apiResponse: `{"methodResponses": [
			["Email/query", {"ids": []}, "a"],
			["Email/get", {"list": []}, "b"]
		]}`,
	}
	client, done := newTestClient(t, fake)
	defer done()

	_, err := client.FetchEmails(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil)
	require.NoError(t, err)

	var args map[string]interface{}
	require.NoError(t, json.Unmarshal(fake.lastRequest.MethodCalls[0].Args, &args))
	filter := args["filter"].(map[string]interface{})
	_, present := filter["inMailboxOtherThan"]
	assert.False(t, present)
}

func TestFetchEmailsMethodError(t *testing.T) {
	fake := &fakeJMAPServer{
		t: t,
		apiResponse: `{"methodResponses": [
			["error", {"type": "invalidArguments", "description": "bad filter"}, "a"],
			["error", {"type": "resultReference", "description": "no result"}, "b"]
		]}`,
	}
	client, done := newTestClient(t, fake)
	defer done()

	_, err := client.FetchEmails(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resultReference")
}

func TestFetchEmailsHTTPError(t *testing.T) {
	fake := &fakeJMAPServer{
		t:           t,
		apiStatus:   http.StatusBadGateway,
		apiResponse: `{"error": "upstream"}`,
	}
	client, done := newTestClient(t, fake)
	defer done()

	_, err := client.FetchEmails(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestPrimaryAccountIDMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /session", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"primaryAccounts": {}}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewClient(ts.URL, "test-token", ts.Client(), zap.NewNop())
	_, err := client.ListMailboxes(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "account id")
}

func TestSessionCachedAcrossCalls(t *testing.T) {
	sessionCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /session", func(w http.ResponseWriter, r *http.Request) {
		sessionCalls++
		w.Write([]byte(`{"primaryAccounts": {"urn:ietf:params:jmap:mail": "acc-1"}}`))
	})
	mux.HandleFunc("POST /api/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"methodResponses": [["Mailbox/get", {"list": []}, "mailboxes"]]}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewClient(ts.URL, "test-token", ts.Client(), zap.NewNop())
	_, err := client.ListMailboxes(context.Background())
	require.NoError(t, err)
	_, err = client.ListMailboxes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sessionCalls)
}
