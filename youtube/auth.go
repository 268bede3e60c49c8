package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Scopes required for playlist management. The read-only scope is enough for
// the fetch path; force-ssl is required by playlistItems.delete.
var Scopes = []string{
	youtube.YoutubeScope,
	youtube.YoutubeForceSslScope,
	youtube.YoutubeReadonlyScope,
}

// NewServiceWithAPIKey creates a YouTube service authenticated by API key.
// API keys only permit read operations, which covers video fetching.
func NewServiceWithAPIKey(ctx context.Context, apiKey string) (*youtube.Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return service, nil
}

// NewServiceFromKeyFile creates a YouTube service from a service-account key
// file. The file is checked for existence before any network activity so a
// missing credential fails fast.
func NewServiceFromKeyFile(ctx context.Context, keyFile string) (*youtube.Service, error) {
	if _, err := os.Stat(keyFile); err != nil {
		return nil, &AuthError{Path: keyFile, Err: ErrCredentialsNotFound}
	}

	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, &AuthError{Path: keyFile, Err: err}
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, &AuthError{Path: keyFile, Err: fmt.Errorf("parse service account key: %w", err)}
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, &AuthError{Path: keyFile, Err: fmt.Errorf("create youtube service: %w", err)}
	}
	return service, nil
}

// NewServiceFromOAuth creates a YouTube service from an OAuth client secret
// and a previously stored token. There is no interactive flow: automation
// runs with a token provisioned ahead of time, and an expired token with a
// refresh token is refreshed transparently by the token source.
func NewServiceFromOAuth(ctx context.Context, clientSecretFile, tokenFile string) (*youtube.Service, error) {
	for _, path := range []string{clientSecretFile, tokenFile} {
		if _, err := os.Stat(path); err != nil {
			return nil, &AuthError{Path: path, Err: ErrCredentialsNotFound}
		}
	}

	secret, err := os.ReadFile(clientSecretFile)
	if err != nil {
		return nil, &AuthError{Path: clientSecretFile, Err: err}
	}

	oauthCfg, err := google.ConfigFromJSON(secret, Scopes...)
	if err != nil {
		return nil, &AuthError{Path: clientSecretFile, Err: fmt.Errorf("parse client secret: %w", err)}
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, &AuthError{Path: tokenFile, Err: err}
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, &AuthError{Path: tokenFile, Err: fmt.Errorf("create youtube service: %w", err)}
	}
	return service, nil
}

// loadToken reads a stored oauth2 token from a JSON file.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, ErrInvalidCredentials
	}
	return token, nil
}
