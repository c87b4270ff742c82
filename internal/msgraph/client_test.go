package msgraph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func TestGetCalendarViewFollowsPages(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `outlook.timezone="Europe/Berlin"`, r.Header.Get("Prefer"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"value":[{"id":"b","subject":"Second"}]}`))
			return
		}
		assert.Equal(t, "/me/calendarView", r.URL.Path)
		assert.Equal(t, "2026-02-27T00:00:00Z", r.URL.Query().Get("startDateTime"))
		assert.Equal(t, eventFields, r.URL.Query().Get("$select"))
		_, _ = w.Write([]byte(`{"value":[{"id":"a","subject":"First"}],"@odata.nextLink":"` + srv.URL + `/me/calendarView?page=2"}`))
	}))
	defer srv.Close()

	c := &Client{httpClient: srv.Client(), baseURL: srv.URL}
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 0, 1), "Europe/Berlin")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Subject)
	assert.Equal(t, "Second", events[1].Subject)
}

func TestGetCalendarViewReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Client{httpClient: srv.Client(), baseURL: srv.URL}
	_, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	assert.ErrorIs(t, err, ErrGraph)
	assert.ErrorContains(t, err, "graph API error 403: denied")
}

func TestTokenRoundTrip(t *testing.T) {
	store := newTokenStore(t.TempDir())
	tok, err := store.load()
	require.NoError(t, err)
	assert.Nil(t, tok)

	want := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.save(want))

	got, err := store.load()
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.Expiry.Equal(got.Expiry))
	assert.FileExists(t, store.path)
}

func TestTokenStoreRejectsCorruptFile(t *testing.T) {
	store := newTokenStore(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o700))
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0o600))

	_, err := store.load()
	assert.ErrorContains(t, err, "corrupt token cache")
}

func TestAuthUsesValidStoredToken(t *testing.T) {
	base := t.TempDir()
	stored := &oauth2.Token{AccessToken: "access", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, newTokenStore(base).save(stored))

	src, err := Auth{Base: base, TenantID: "common", ClientID: "client"}.TokenSource(context.Background())
	require.NoError(t, err)
	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "access", tok.AccessToken)
}

func TestOAuth2ConfigEndpoints(t *testing.T) {
	cfg := oauth2Config("common", "client")
	assert.Equal(t, "https://login.microsoftonline.com/common/oauth2/v2.0/token", cfg.Endpoint.TokenURL)
	assert.Equal(t, "https://login.microsoftonline.com/common/oauth2/v2.0/devicecode", cfg.Endpoint.DeviceAuthURL)
	assert.Equal(t, graphScopes, cfg.Scopes)
}

func TestSavingTokenSourceWritesNewTokensOnly(t *testing.T) {
	store := newTokenStore(t.TempDir())
	tok := &oauth2.Token{AccessToken: "same", Expiry: time.Now().Add(time.Hour)}
	src := &savingTokenSource{src: oauth2.StaticTokenSource(tok), store: store, last: "same", log: zap.NewNop()}
	_, err := src.Token()
	require.NoError(t, err)
	assert.NoFileExists(t, store.path)

	src.src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)})
	_, err = src.Token()
	require.NoError(t, err)
	got, err := store.load()
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.AccessToken)
}
