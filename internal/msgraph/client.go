package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/AndiHofi/quarble-sub000/internal/storage"
)

const (
	graphBaseURL = "https://graph.microsoft.com/v1.0"
	pageSize     = "100"
	// eventFields are the only event properties the importer reads.
	eventFields = "id,subject,bodyPreview,isAllDay,isCancelled,sensitivity,showAs,start,end,location"
	// maxErrorBody caps how much of a failed response ends up in an error.
	maxErrorBody = 4 << 10
)

// ErrGraph wraps every non-200 answer of the Graph API.
var ErrGraph = errors.New("graph API error")

// Client reads the signed-in user's calendar from Microsoft Graph.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a Client authorized by src.
func NewClient(ctx context.Context, src oauth2.TokenSource) *Client {
	return &Client{
		httpClient: oauth2.NewClient(ctx, src),
		baseURL:    graphBaseURL,
	}
}

// tokenStore caches the Graph token in <base>/auth/msgraph_tokens.json.
type tokenStore struct {
	path string
}

func newTokenStore(base string) tokenStore {
	return tokenStore{path: filepath.Join(base, "auth", "msgraph_tokens.json")}
}

// load returns the cached token, or nil when there is none.
func (s tokenStore) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token cache: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token cache %s: %w", s.path, err)
	}
	return &tok, nil
}

func (s tokenStore) save(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	return storage.WriteFileAtomic(s.path, data)
}

// source returns a TokenSource starting at tok that refreshes with cfg and
// caches every new access token.
func (s tokenStore) source(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, log *zap.Logger) oauth2.TokenSource {
	return &savingTokenSource{src: cfg.TokenSource(ctx, tok), store: s, last: tok.AccessToken, log: log}
}

type savingTokenSource struct {
	src   oauth2.TokenSource
	store tokenStore
	last  string
	log   *zap.Logger
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.save(tok); err != nil {
			s.log.Warn("could not cache refreshed token", zap.Error(err))
		}
	}
	return tok, nil
}

// EventTime is a Graph dateTimeTimeZone value.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// CalendarEvent is the subset of a Graph event the importer needs.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	BodyPreview string    `json:"bodyPreview"`
	IsAllDay    bool      `json:"isAllDay"`
	IsCancelled bool      `json:"isCancelled"`
	Sensitivity string    `json:"sensitivity"` // normal, personal, private, confidential
	ShowAs      string    `json:"showAs"`      // free, tentative, busy, oof, workingElsewhere, unknown
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

type eventPage struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// calendarViewURL builds the first page request for [from, to).
func (c *Client) calendarViewURL(from, to time.Time) string {
	q := url.Values{}
	q.Set("startDateTime", from.UTC().Format(time.RFC3339))
	q.Set("endDateTime", to.UTC().Format(time.RFC3339))
	q.Set("$select", eventFields)
	q.Set("$orderby", "start/dateTime")
	q.Set("$top", pageSize)
	return strings.TrimSuffix(c.baseURL, "/") + "/me/calendarView?" + q.Encode()
}

// GetCalendarView returns all events overlapping [from, to), following
// @odata.nextLink until the last page. Event times are reported in
// timezone (an IANA name) or in UTC when it is empty.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	var events []CalendarEvent
	for next := c.calendarViewURL(from, to); next != ""; {
		page, err := c.fetchPage(ctx, next, timezone)
		if err != nil {
			return nil, err
		}
		events = append(events, page.Value...)
		next = page.NextLink
	}
	return events, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL, timezone string) (*eventPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building calendar request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if timezone != "" {
		req.Header.Set("Prefer", fmt.Sprintf("outlook.timezone=%q", timezone))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w %d: %s", ErrGraph, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var page eventPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding calendar page: %w", err)
	}
	return &page, nil
}
