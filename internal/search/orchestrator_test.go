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

package search

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/Steve-Jovs/rag-gmail-project/internal/mailbox"
)

type stubProvider struct {
	ids       []string
	msgs      map[string]*gmail.Message
	searchErr error
	fetchErr  error

	gotQuery string
	gotMax   int64
}

func (s *stubProvider) Search(_ context.Context, query string, maxResults int64) ([]string, error) {
	s.gotQuery = query
	s.gotMax = maxResults
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.ids, nil
}

func (s *stubProvider) Fetch(_ context.Context, id string) (*gmail.Message, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	msg, ok := s.msgs[id]
	if !ok {
		return nil, fmt.Errorf("no such message %q", id)
	}
	return msg, nil
}

func plainMessage(id string, internalDate int64, subject, from, date, body, snippet string) *gmail.Message {
	headers := []*gmail.MessagePartHeader{}
	if subject != "" {
		headers = append(headers, &gmail.MessagePartHeader{Name: "Subject", Value: subject})
	}
	if from != "" {
		headers = append(headers, &gmail.MessagePartHeader{Name: "From", Value: from})
	}
	if date != "" {
		headers = append(headers, &gmail.MessagePartHeader{Name: "Date", Value: date})
	}
	return &gmail.Message{
		Id:           id,
		InternalDate: internalDate,
		Snippet:      snippet,
		Payload: &gmail.MessagePart{
			Headers: headers,
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/plain",
					Body: &gmail.MessagePartBody{
						Data: base64.RawURLEncoding.EncodeToString([]byte(body)),
					},
				},
			},
		},
	}
}

func TestRun_ExtractsAndSortsNewestFirst(t *testing.T) {
	provider := &stubProvider{
		ids: []string{"old", "new", "undated"},
		msgs: map[string]*gmail.Message{
			"old":     plainMessage("old", 1700000000000, "Old news", "a@example.com", "Wed, 14 Nov 2023 00:00:00 +0000", "old body", "old snip"),
			"new":     plainMessage("new", 1750000000000, "Fresh news", "b@example.com", "Sun, 15 Jun 2025 00:00:00 +0000", "new body", "new snip"),
			"undated": plainMessage("undated", 0, "No date", "c@example.com", "", "undated body", ""),
		},
	}

	emails, err := Run(context.Background(), provider, "in:inbox news", 10)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if provider.gotQuery != "in:inbox news" || provider.gotMax != 10 {
		t.Errorf("provider called with query=%q max=%d", provider.gotQuery, provider.gotMax)
	}

	if len(emails) != 3 {
		t.Fatalf("Run() returned %d emails, want 3", len(emails))
	}
	gotOrder := []string{emails[0].MessageID, emails[1].MessageID, emails[2].MessageID}
	wantOrder := []string{"new", "old", "undated"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("sort order = %v, want %v", gotOrder, wantOrder)
		}
	}

	first := emails[0]
	if first.Subject != "Fresh news" || first.Sender != "b@example.com" {
		t.Errorf("headers not extracted: %+v", first)
	}
	if first.Body != "new body" {
		t.Errorf("Body = %q, want %q", first.Body, "new body")
	}
	if first.BodyLength != len("new body") {
		t.Errorf("BodyLength = %d, want %d", first.BodyLength, len("new body"))
	}
	if first.Snippet != "new snip..." {
		t.Errorf("Snippet = %q, want trailing ellipsis", first.Snippet)
	}
}

func TestRun_HeaderDefaults(t *testing.T) {
	provider := &stubProvider{
		ids: []string{"bare"},
		msgs: map[string]*gmail.Message{
			"bare": plainMessage("bare", 1, "", "", "", "something", ""),
		},
	}

	emails, err := Run(context.Background(), provider, "q", 5)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	got := emails[0]
	if got.Subject != NoSubject {
		t.Errorf("Subject = %q, want %q", got.Subject, NoSubject)
	}
	if got.Sender != UnknownSender {
		t.Errorf("Sender = %q, want %q", got.Sender, UnknownSender)
	}
	if got.Date != UnknownDate {
		t.Errorf("Date = %q, want %q", got.Date, UnknownDate)
	}
}

func TestRun_FirstHeaderWins(t *testing.T) {
	msg := plainMessage("dup", 1, "First subject", "x@example.com", "", "body", "")
	msg.Payload.Headers = append(msg.Payload.Headers,
		&gmail.MessagePartHeader{Name: "Subject", Value: "Second subject"})

	provider := &stubProvider{ids: []string{"dup"}, msgs: map[string]*gmail.Message{"dup": msg}}
	emails, err := Run(context.Background(), provider, "q", 1)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if emails[0].Subject != "First subject" {
		t.Errorf("Subject = %q, want first occurrence", emails[0].Subject)
	}
}

func TestRun_LongSnippetTruncated(t *testing.T) {
	long := strings.Repeat("s", 300)
	provider := &stubProvider{
		ids:  []string{"m"},
		msgs: map[string]*gmail.Message{"m": plainMessage("m", 1, "S", "f", "", "b", long)},
	}

	emails, err := Run(context.Background(), provider, "q", 1)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := strings.Repeat("s", 200) + "..."
	if emails[0].Snippet != want {
		t.Errorf("Snippet length = %d, want 200 chars plus ellipsis", len(emails[0].Snippet))
	}
}

func TestRun_NilProvider(t *testing.T) {
	_, err := Run(context.Background(), nil, "q", 10)
	if !errors.Is(err, mailbox.ErrNotAuthenticated) {
		t.Errorf("Run(nil provider) error = %v, want ErrNotAuthenticated", err)
	}
}

func TestRun_EmptyResult(t *testing.T) {
	provider := &stubProvider{ids: nil}
	emails, err := Run(context.Background(), provider, "q", 10)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if emails == nil || len(emails) != 0 {
		t.Errorf("Run() = %v, want empty non-nil slice", emails)
	}
}

func TestRun_PropagatesErrors(t *testing.T) {
	t.Run("search error", func(t *testing.T) {
		provider := &stubProvider{searchErr: errors.New("quota exceeded")}
		_, err := Run(context.Background(), provider, "q", 10)
		if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
			t.Errorf("Run() error = %v, want wrapped search error", err)
		}
	})

	t.Run("fetch error", func(t *testing.T) {
		provider := &stubProvider{ids: []string{"m1"}, fetchErr: errors.New("backend unavailable")}
		_, err := Run(context.Background(), provider, "q", 10)
		if err == nil || !strings.Contains(err.Error(), "m1") {
			t.Errorf("Run() error = %v, want error naming the message", err)
		}
	})
}
