package msgraph

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var graphScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func loginURL(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// oauth2Config describes the public client used for the device code flow.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   graphScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: loginURL(tenantID, "devicecode"),
			TokenURL:      loginURL(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// Auth signs in to Microsoft Graph with the OAuth2 device code flow and
// keeps the token in the data directory.
type Auth struct {
	Base     string
	TenantID string
	ClientID string
	// Prompt receives the sign-in instructions.
	Prompt io.Writer
	Log    *zap.Logger
}

// TokenSource returns a source backed by the cached token. An expired
// token is refreshed; without a usable one the user signs in again.
// Every new token is written back to the cache.
func (a Auth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cfg := oauth2Config(a.TenantID, a.ClientID)
	store := newTokenStore(a.Base)
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}

	tok, err := store.load()
	if err != nil {
		log.Warn("ignoring cached token", zap.Error(err))
	}
	if tok != nil {
		src := store.source(ctx, cfg, tok, log)
		_, err := src.Token()
		if err == nil {
			return src, nil
		}
		log.Warn("cached token unusable, signing in again", zap.Error(err))
	}

	if tok, err = a.deviceLogin(ctx, cfg); err != nil {
		return nil, err
	}
	if err := store.save(tok); err != nil {
		log.Warn("could not cache token", zap.Error(err))
	}
	return store.source(ctx, cfg, tok, log), nil
}

func (a Auth) deviceLogin(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting device code: %w", err)
	}
	if a.Prompt != nil {
		fmt.Fprintf(a.Prompt, "\nSign in at %s with the code %s\n\n", resp.VerificationURI, resp.UserCode)
	}
	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device sign-in: %w", err)
	}
	return tok, nil
}
