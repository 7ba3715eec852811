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

// Package search runs a structured Gmail query end to end: list the
// matching message IDs, fetch each message in full, extract its body and
// attachments, and return the results sorted newest first.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/Steve-Jovs/rag-gmail-project/internal/extract"
	"github.com/Steve-Jovs/rag-gmail-project/internal/mailbox"
	"github.com/Steve-Jovs/rag-gmail-project/internal/models"
)

// Header placeholders used when the message lacks the header entirely.
const (
	NoSubject     = "No Subject"
	UnknownSender = "Unknown Sender"
	UnknownDate   = "Unknown Date"
)

// snippetLimit caps the provider snippet carried on each result.
const snippetLimit = 200

// Run executes the query against the given provider and returns extracted
// emails sorted by internal date, newest first. The provider is injected
// per call: the session's validity was checked when it was produced, and
// a nil provider means the mail capability is unavailable — a distinct
// outcome from a query matching zero messages (empty slice, nil error).
func Run(ctx context.Context, provider mailbox.Provider, query string, maxResults int) ([]models.ExtractedEmail, error) {
	if provider == nil {
		return nil, mailbox.ErrNotAuthenticated
	}

	start := time.Now()
	slog.Info("starting email search", "query", query, "max_results", maxResults)

	ids, err := provider.Search(ctx, query, int64(maxResults))
	if err != nil {
		return nil, fmt.Errorf("search mailbox: %w", err)
	}
	slog.Info("mailbox search returned", "matches", len(ids))

	emails := make([]models.ExtractedEmail, 0, len(ids))
	for i, id := range ids {
		msg, err := provider.Fetch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", id, err)
		}

		email := buildEmail(msg)
		emails = append(emails, email)

		slog.Debug("processed email",
			"index", i+1,
			"of", len(ids),
			"subject", email.Subject,
			"body_chars", email.BodyLength,
			"attachments", len(email.Attachments),
		)
	}

	// Newest first; messages without an internal date carry 0 and sort last.
	sort.SliceStable(emails, func(i, j int) bool {
		return emails[i].InternalDate > emails[j].InternalDate
	})

	slog.Info("email search completed",
		"emails", len(emails),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return emails, nil
}

// buildEmail assembles one ExtractedEmail from a full message record.
func buildEmail(msg *gmail.Message) models.ExtractedEmail {
	body := extract.Body(msg.Payload)

	return models.ExtractedEmail{
		Subject:      headerValue(msg.Payload, "Subject", NoSubject),
		Sender:       headerValue(msg.Payload, "From", UnknownSender),
		Date:         headerValue(msg.Payload, "Date", UnknownDate),
		InternalDate: msg.InternalDate,
		Body:         body,
		Snippet:      truncateSnippet(msg.Snippet),
		MessageID:    msg.Id,
		Attachments:  extract.Attachments(msg.Payload),
		BodyLength:   len(body),
	}
}

// headerValue finds a header by exact name in the flat header list. Headers
// are neither ordered nor unique; the first match wins, and a missing
// header yields the placeholder.
func headerValue(payload *gmail.MessagePart, name, placeholder string) string {
	if payload == nil {
		return placeholder
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return placeholder
}

// truncateSnippet bounds the snippet to snippetLimit characters. The
// ellipsis is appended unconditionally to match the frontend contract.
func truncateSnippet(snippet string) string {
	runes := []rune(snippet)
	if len(runes) > snippetLimit {
		runes = runes[:snippetLimit]
	}
	return string(runes) + "..."
}
