// ABOUTME: OAuth token store backed by a folder of JSON token files.
// ABOUTME: The interactive credential capture is owned by the auth collaborator.
package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

const tokenFileName = "oauth_token.json"

// TokenStore holds the bearer token for the service, persisted as an oauth2
// token JSON file inside the configured oauth folder. The store is read-only
// during normal operation; refreshes rewrite the file.
type TokenStore struct {
	dir    string
	tok    *oauth2.Token
	source oauth2.TokenSource
}

// LoadTokenStore reads the token file from the oauth folder.
func LoadTokenStore(dir string) (*TokenStore, error) {
	path := filepath.Join(dir, tokenFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &AuthError{Message: fmt.Sprintf("no token store at %s - run 'trainer login'", path)}
		}
		return nil, fmt.Errorf("read token store: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, &AuthError{Message: fmt.Sprintf("corrupt token store %s: %v", path, err)}
	}
	if tok.AccessToken == "" {
		return nil, &AuthError{Message: "token store has no access token - run 'trainer login'"}
	}
	return &TokenStore{dir: dir, tok: &tok}, nil
}

// SaveToken persists a token into the oauth folder, creating it if needed.
func SaveToken(dir string, tok *oauth2.Token) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create oauth folder: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, tokenFileName), data, 0600)
}

// WithRefresh attaches an oauth2 token source used to refresh expired
// tokens. Refreshed tokens are written back to the folder.
func (s *TokenStore) WithRefresh(cfg *oauth2.Config) *TokenStore {
	s.source = cfg.TokenSource(context.Background(), s.tok)
	return s
}

// AccessToken returns a valid bearer token, refreshing when possible.
func (s *TokenStore) AccessToken(ctx context.Context) (string, error) {
	if s.tok.Valid() || s.source == nil {
		if s.tok.AccessToken == "" {
			return "", &AuthError{Message: "empty access token"}
		}
		return s.tok.AccessToken, nil
	}

	fresh, err := s.source.Token()
	if err != nil {
		return "", &AuthError{Message: fmt.Sprintf("token refresh failed: %v", err)}
	}
	s.tok = fresh
	if err := SaveToken(s.dir, fresh); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	return fresh.AccessToken, nil
}
