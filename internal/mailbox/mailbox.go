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

// Package mailbox models the mail provider as a capability: a search over
// the mailbox plus a full fetch per message. The live implementation wraps
// the Gmail API; tests substitute a deterministic stub. Callers receive
// ErrNotAuthenticated when no authenticated session backs the capability,
// which is a distinct outcome from a search that matches nothing.
package mailbox

import (
	"context"
	"errors"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// ErrNotAuthenticated reports that the mail capability is unavailable
// because there is no valid authenticated session. It must surface to the
// caller as a re-authentication outcome, never as "no results".
var ErrNotAuthenticated = errors.New("mailbox: not authenticated")

// Provider is the mail capability consumed by the search orchestrator.
type Provider interface {
	// Search returns the IDs of messages matching a Gmail search query,
	// newest first, capped at maxResults.
	Search(ctx context.Context, query string, maxResults int64) ([]string, error)

	// Fetch retrieves the full message record for one ID, including the
	// payload part tree, headers, snippet and internal date.
	Fetch(ctx context.Context, id string) (*gmail.Message, error)
}

// GmailProvider is the live Provider backed by the Gmail API.
type GmailProvider struct {
	svc *gmail.Service
}

// NewGmailProvider wraps an authenticated Gmail service.
func NewGmailProvider(svc *gmail.Service) *GmailProvider {
	return &GmailProvider{svc: svc}
}

// Search lists message IDs for the authenticated user matching the query.
func (p *GmailProvider) Search(ctx context.Context, query string, maxResults int64) ([]string, error) {
	resp, err := p.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// Fetch retrieves one message in full format (complete payload tree).
func (p *GmailProvider) Fetch(ctx context.Context, id string) (*gmail.Message, error) {
	msg, err := p.svc.Users.Messages.Get("me", id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return msg, nil
}

// Profile returns the authenticated user's email address.
func (p *GmailProvider) Profile(ctx context.Context) (string, error) {
	profile, err := p.svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	return profile.EmailAddress, nil
}
