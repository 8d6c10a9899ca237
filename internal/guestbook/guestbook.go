// Package guestbook pages through and signs the wedding guest book.
package guestbook

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/locale"
	"github.com/yildizm/wedsite/internal/wedding"
)

const (
	PageSize         = 11
	MaxMessageLength = 1200
	FadeDuration     = 300 * time.Millisecond
)

// Source is the part of the RSVP service the guest book talks to.
type Source interface {
	ListComments(ctx context.Context, page, pageSize int) (*api.CommentPage, error)
	AuthenticateCommenter(ctx context.Context, email, password string) ([]api.Commenter, error)
	PostComment(ctx context.Context, inviteeID, text string) (*api.Comment, error)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Draft is a message being written by one of an authenticated household's
// invitees.
type Draft struct {
	Invitees  []api.Commenter
	InviteeID string
	Message   string
}

func (d Draft) Validate() error {
	if d.InviteeID == "" {
		return &ValidationError{Field: "invitee", Message: "Please select your name"}
	}
	if strings.TrimSpace(d.Message) == "" {
		return &ValidationError{Field: "message", Message: "Please enter a message"}
	}
	if utf8.RuneCountInString(d.Message) > MaxMessageLength {
		return &ValidationError{Field: "message", Message: fmt.Sprintf("Message must be %d characters or less", MaxMessageLength)}
	}
	return nil
}

// InviteeName is the selected invitee's name, or "" if unknown.
func (d Draft) InviteeName() string {
	for _, inv := range d.Invitees {
		if inv.ID == d.InviteeID {
			return inv.Name
		}
	}
	return ""
}

// Authenticate returns a draft for the household owning email and password.
func Authenticate(ctx context.Context, src Source, email, password string) (*Draft, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &ValidationError{Field: "email", Message: "Please enter your email and password"}
	}
	invitees, err := src.AuthenticateCommenter(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authenticate commenter: %w", err)
	}
	return &Draft{Invitees: invitees}, nil
}

// Sign posts the draft and returns the comment as it should be displayed.
// Fields the service leaves out are filled from the draft.
func Sign(ctx context.Context, src Source, d Draft, now func() time.Time) (api.Comment, error) {
	if err := d.Validate(); err != nil {
		return api.Comment{}, err
	}
	text := strings.TrimSpace(d.Message)
	posted, err := src.PostComment(ctx, d.InviteeID, text)
	if err != nil {
		return api.Comment{}, fmt.Errorf("post comment: %w", err)
	}

	c := *posted
	if now == nil {
		now = time.Now
	}
	if c.ID == "" {
		c.ID = fmt.Sprintf("%d", now().UnixMilli())
	}
	if c.MessageText == "" {
		c.MessageText = text
	}
	if c.InviteeID == "" {
		c.InviteeID = d.InviteeID
	}
	if c.InviteeName == "" {
		c.InviteeName = d.InviteeName()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = api.Timestamp{Time: now().UTC()}
	}
	return c, nil
}

// DisplayName falls back to "Anonymous".
func DisplayName(c api.Comment) string {
	if strings.TrimSpace(c.InviteeName) == "" {
		return "Anonymous"
	}
	return c.InviteeName
}

// FormatDate renders a comment's timestamp in the viewer's zone.
func FormatDate(lang locale.Language, c api.Comment, loc *time.Location) string {
	if c.CreatedAt.IsZero() {
		return wedding.FormatTimestamp(lang, time.Time{})
	}
	if loc == nil {
		loc = time.Local
	}
	return wedding.FormatTimestamp(lang, c.CreatedAt.In(loc))
}

// NoteWidth is the pixel width of a note holding message, wide enough for
// the text to fill about nine lines and never narrower than its signature.
func NoteWidth(message, author, date string) float64 {
	if message == "" {
		return 180
	}
	const (
		availableHeight = 250.0
		lineHeight      = 25.6
		charWidth       = 8.5
		padding         = 40.0
	)
	targetLines := math.Floor(availableHeight / lineHeight)
	charsPerLine := math.Ceil(float64(utf8.RuneCountInString(message)) / targetLines)
	width := charsPerLine*charWidth + padding

	signature := 300.0
	if date != "" {
		signature = math.Max(signature, float64(utf8.RuneCountInString(date))*charWidth+padding)
	}
	if author != "" {
		signature = math.Max(signature, float64(utf8.RuneCountInString(author))*charWidth+padding)
	}
	return math.Max(signature, math.Min(600, width))
}

// List fetches the 0-indexed page of comments.
func List(ctx context.Context, src Source, page int) (*api.CommentPage, error) {
	if page < 0 {
		page = 0
	}
	result, err := src.ListComments(ctx, page+1, PageSize)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return result, nil
}
