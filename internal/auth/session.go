// Copyright (c) 2026 Steve Jovs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package auth manages the Gmail OAuth session: the installed-app client
// from credentials.json, the persisted token in token.json, and the
// construction of an authenticated mail provider. Validity is decided when
// a provider is requested, once per call — there is no ambient
// authenticated flag.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Steve-Jovs/rag-gmail-project/internal/mailbox"
)

// Session holds the OAuth client configuration and token location.
type Session struct {
	config    *oauth2.Config
	tokenFile string

	mu sync.Mutex // guards token.json reads/writes
}

// NewSession loads the OAuth client from a Google credentials.json file.
// The session requests read-only mailbox access.
func NewSession(credentialsFile, tokenFile string) (*Session, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file %s: %w", credentialsFile, err)
	}

	config, err := google.ConfigFromJSON(data, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	return &Session{config: config, tokenFile: tokenFile}, nil
}

// AuthURL returns the consent page URL to start the OAuth flow.
func (s *Session) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and persists it.
func (s *Session) Exchange(ctx context.Context, code string) error {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := s.saveToken(token); err != nil {
		return err
	}

	slog.Info("gmail authorization completed", "token_file", s.tokenFile)
	return nil
}

// Logout removes the persisted token. A missing token file is not an error.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.tokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}

	slog.Info("gmail session cleared", "token_file", s.tokenFile)
	return nil
}

// Provider returns an authenticated Gmail provider, refreshing and
// re-persisting the token when needed. It returns
// mailbox.ErrNotAuthenticated when no usable token exists.
func (s *Session) Provider(ctx context.Context) (mailbox.Provider, error) {
	token, err := s.loadToken()
	if err != nil {
		slog.Info("no usable gmail token", "error", err)
		return nil, mailbox.ErrNotAuthenticated
	}

	source := s.config.TokenSource(ctx, token)
	fresh, err := source.Token()
	if err != nil {
		slog.Info("gmail token refresh failed", "error", err)
		return nil, mailbox.ErrNotAuthenticated
	}

	if fresh.AccessToken != token.AccessToken {
		if err := s.saveToken(fresh); err != nil {
			slog.Warn("failed to persist refreshed token", "error", err)
		}
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return mailbox.NewGmailProvider(svc), nil
}

func (s *Session) loadToken() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	return token, nil
}

func (s *Session) saveToken(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := os.WriteFile(s.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
