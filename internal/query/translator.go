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

// Package query translates natural-language questions into Gmail search
// syntax. The primary path asks the language model with a fixed instruction
// set at low temperature; any model failure falls back to deterministic
// keyword extraction, so translation itself never fails.
package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Steve-Jovs/rag-gmail-project/internal/llm"
	"github.com/Steve-Jovs/rag-gmail-project/internal/qcache"
)

// translateTimeout bounds the model call; translation is a short prompt
// and a short answer, so it must not hold up the whole pipeline.
const translateTimeout = 10 * time.Second

const systemPrompt = `You are a Gmail search query expert. Convert the user's natural language question into a valid Gmail search query.

Gmail Search Syntax Examples:
- "from:amazon" - Emails from Amazon
- "subject:meeting" - Emails with "meeting" in subject
- "newer_than:7d" - Emails from last 7 days
- "is:important" - Important emails
- "has:attachment" - Emails with attachments
- "label:work" - Emails with work label

Rules:
1. Always start with "in:inbox" unless specified otherwise
2. Keep it simple and specific
3. Use exact phrases in quotes for specific terms
4. Prefer recent emails by default
5. Return ONLY the search query, no explanations

Examples:
- "What emails from Amazon last week?" → "in:inbox from:amazon newer_than:7d"
- "Show me important work emails" → "in:inbox is:important label:work"
- "Find emails about the project meeting" → 'in:inbox subject:"project meeting"'
- "Emails with attachments from John" → "in:inbox from:john has:attachment"

Now convert this:`

// stopWords are question words and generic terms dropped by the keyword
// fallback.
var stopWords = map[string]bool{
	"what":   true,
	"where":  true,
	"when":   true,
	"why":    true,
	"how":    true,
	"show":   true,
	"me":     true,
	"find":   true,
	"emails": true,
	"email":  true,
}

// Translator maps natural-language questions to Gmail queries.
type Translator struct {
	completer llm.Completer
	cache     *qcache.Cache
}

// NewTranslator creates a translator. The cache may be nil.
func NewTranslator(completer llm.Completer, cache *qcache.Cache) *Translator {
	return &Translator{completer: completer, cache: cache}
}

// Translate converts a natural-language question into a Gmail search query.
// It never fails: when the model is unreachable or errors, the deterministic
// keyword fallback is used instead.
func (t *Translator) Translate(ctx context.Context, naturalQuery string) string {
	if cached, err := t.cache.Get(ctx, naturalQuery); err != nil {
		slog.Warn("translation cache lookup failed", "error", err)
	} else if cached != "" {
		slog.Debug("translation cache hit", "query", naturalQuery)
		return cached
	}

	result, err := t.completer.Complete(ctx, llm.Request{
		System:      systemPrompt,
		User:        naturalQuery,
		Temperature: 0.1,
		MaxTokens:   100,
		Timeout:     translateTimeout,
	})
	if err != nil {
		slog.Warn("query translation failed, using keyword fallback", "error", err)
		return Fallback(naturalQuery)
	}

	translated := strings.TrimSpace(strings.ReplaceAll(result, `"`, ""))
	if translated == "" {
		return Fallback(naturalQuery)
	}

	if err := t.cache.Put(ctx, naturalQuery, translated); err != nil {
		slog.Warn("translation cache store failed", "error", err)
	}

	return translated
}

// Fallback is the deterministic keyword extractor: lowercase the question,
// drop stop words and short tokens, keep the first 3 keywords, and scope
// the result to the inbox. It is pure — same input, same output — so it is
// testable without network access.
func Fallback(naturalQuery string) string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(naturalQuery)) {
		if stopWords[word] || len(word) <= 2 {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == 3 {
			break
		}
	}

	return strings.TrimSpace("in:inbox " + strings.Join(keywords, " "))
}
