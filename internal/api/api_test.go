package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RetryDelay = time.Millisecond
	c, err := New(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty url", func(c *Config) { c.BaseURL = "" }, false},
		{"relative url", func(c *Config) { c.BaseURL = "/api" }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"no attempts", func(c *Config) { c.MaxRetries = 0 }, false},
		{"negative delay", func(c *Config) { c.RetryDelay = -time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, ErrTypeConfiguration, apiErr.Type)
		})
	}
}

func TestLookupRSVP(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/guest/rsvp-info", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req RSVPLookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@example.com", req.Email)
		assert.Equal(t, "evt-1", req.EventID)

		_, _ = io.WriteString(w, `{
			"mailing_address": {"id": "addr-1", "address_line_1": "1 Main St", "city": "Asheville", "state": "NC", "postal_code": "28801"},
			"event": {"id": "evt-1", "name": "Ceremony", "guests": [{"id": "g1", "full_name": "Ana", "rsvp_response": "yes"}]}
		}`)
	})

	info, err := c.LookupRSVP(context.Background(), RSVPLookupRequest{
		Email: "ana@example.com", PhoneNumber: "5551234567", Password: "pw", EventID: "evt-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "addr-1", info.MailingAddress.ID)
	require.Len(t, info.Event.Guests, 1)
	assert.Equal(t, "yes", info.Event.Guests[0].RSVPResponse)
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errType ErrorType
		message string
	}{
		{"string detail", 404, `{"detail": "No RSVP found"}`, ErrTypeNotFound, "No RSVP found"},
		{"validation list", 422, `{"detail": [{"msg": "field required"}]}`, ErrTypeValidation, "field required"},
		{"message field", 400, `{"message": "Message too long"}`, ErrTypeValidation, "Message too long"},
		{"unauthorized", 401, `{"detail": "Invalid password"}`, ErrTypeAuthentication, "Invalid password"},
		{"conflict", 409, `{"detail": "Already submitted"}`, ErrTypeConflict, "Already submitted"},
		{"not json", 403, `nope`, ErrTypeAuthentication, "request failed with status 403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ListEvents(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.errType, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, Message(err))
			assert.False(t, apiErr.Retryable)
		})
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `[{"id": "e1", "name": "Main"}]`)
	})

	events, err := c.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryGivesUp(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.ListEvents(context.Background())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.True(t, errors.Is(err, &APIError{Type: ErrTypeServer}))
	assert.Equal(t, int32(DefaultMaxRetries), atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetGuest(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWritesAreNotRetried(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(context.Context, *Client) error
	}{
		{"post comment", "/comments", func(ctx context.Context, c *Client) error {
			_, err := c.PostComment(ctx, "i1", "Felicidades")
			return err
		}},
		{"submit rsvp", "/rsvp", func(ctx context.Context, c *Client) error {
			return c.SubmitRSVP(ctx, &RSVPSubmission{MailingAddressID: "addr-1", EventID: "evt-1"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				w.WriteHeader(http.StatusGatewayTimeout)
			})

			err := tt.call(context.Background(), c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, &APIError{Type: ErrTypeServer}))
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 2*time.Second, retryAfter("2"))
	assert.Equal(t, time.Duration(0), retryAfter(""))
	assert.Equal(t, time.Duration(0), retryAfter("soon"))
}

func TestContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.ListEvents(ctx)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrTypeTimeout, apiErr.Type)
}

func TestListComments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comments", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "11", r.URL.Query().Get("page_size"))
		_, _ = io.WriteString(w, `{
			"comments": [
				{"id": "c1", "message_text": "Congrats!", "invitee_name": "Ana", "created_at": "2026-05-01T14:30:00.123456"},
				{"id": "c2", "message_text": "Yay", "invitee_name": "", "created_at": "2026-05-02T09:00:00Z"}
			],
			"total_pages": 4
		}`)
	})

	page, err := c.ListComments(context.Background(), 2, 11)
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Comments, 2)
	assert.Equal(t, time.Date(2026, 5, 1, 14, 30, 0, 123456000, time.UTC), page.Comments[0].CreatedAt.Time)
	assert.Equal(t, 2, page.Comments[1].CreatedAt.Day())
}

func TestCommentFlow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/comments/auth":
			var req commentAuthRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ana@example.com", req.Email)
			_, _ = io.WriteString(w, `{"invitees": [{"id": "i1", "name": "Ana"}, {"id": "i2", "name": "Luis"}]}`)
		case "/comments":
			require.Equal(t, http.MethodPost, r.Method)
			var req newComment
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_, _ = io.WriteString(w, `{"id": "c9", "invitee_id": "`+req.InviteeID+`", "message": "`+req.MessageText+`"}`)
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	invitees, err := c.AuthenticateCommenter(ctx, "  ana@example.com ", "pw")
	require.NoError(t, err)
	require.Len(t, invitees, 2)

	comment, err := c.PostComment(ctx, invitees[1].ID, "Felicidades")
	require.NoError(t, err)
	assert.Equal(t, "c9", comment.ID)
	assert.Equal(t, "i2", comment.InviteeID)
	assert.Equal(t, "Felicidades", comment.MessageText)
}

func TestSubmitRSVP(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var got map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "addr-1", got["mailing_address_id"])
		assert.Equal(t, "evt-2", got["event_id"])
		invitees := got["invitees"].([]interface{})
		first := invitees[0].(map[string]interface{})
		_, hasID := first["invitee_id"]
		assert.False(t, hasID, "new invitees are sent without an id")
		w.WriteHeader(http.StatusCreated)
	})

	err := c.SubmitRSVP(context.Background(), &RSVPSubmission{
		MailingAddressID: "addr-1",
		EventID:          "evt-2",
		Invitees:         []Invitee{{Name: "New Guest", RSVPResponse: "yes"}},
	})
	require.NoError(t, err)
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": 12`)
	})

	_, err := c.GetGuest(context.Background(), "g1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrTypeDecode, apiErr.Type)
}
