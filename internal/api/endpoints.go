package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// LookupRSVP returns a household's responses for one event. Wrong
// credentials surface as authentication or not-found errors.
func (c *Client) LookupRSVP(ctx context.Context, req RSVPLookupRequest) (*RSVPInfo, error) {
	var info RSVPInfo
	if err := c.do(ctx, http.MethodPost, "/guest/rsvp-info", nil, true, req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SubmitRSVP records a household's answers for one event. It is never retried.
func (c *Client) SubmitRSVP(ctx context.Context, sub *RSVPSubmission) error {
	return c.do(ctx, http.MethodPost, "/rsvp", nil, false, sub, nil)
}

// ListComments fetches a 1-indexed page of the guest book.
func (c *Client) ListComments(ctx context.Context, page, pageSize int) (*CommentPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out CommentPage
	if err := c.do(ctx, http.MethodGet, "/comments", q, true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthenticateCommenter returns the invitees of the household that owns the
// given email and password.
func (c *Client) AuthenticateCommenter(ctx context.Context, email, password string) ([]Commenter, error) {
	var out commentAuthResponse
	req := commentAuthRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/comments/auth", nil, true, req, &out); err != nil {
		return nil, err
	}
	return out.Invitees, nil
}

// PostComment signs the guest book. It is never retried.
func (c *Client) PostComment(ctx context.Context, inviteeID, text string) (*Comment, error) {
	var out postedComment
	req := newComment{InviteeID: inviteeID, MessageText: text}
	if err := c.do(ctx, http.MethodPost, "/comments", nil, false, req, &out); err != nil {
		return nil, err
	}
	comment := out.Comment
	if comment.MessageText == "" {
		comment.MessageText = out.Message
	}
	return &comment, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/event", nil, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetGuest(ctx context.Context, id string) (*Guest, error) {
	var out Guest
	if err := c.do(ctx, http.MethodGet, "/guest/"+url.PathEscape(id), nil, true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
