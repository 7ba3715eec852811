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

// Package rag wires the full query pipeline: translate the question, search
// and fetch the mailbox, assemble the context, and synthesize the answer.
// The stages run sequentially and keep all working state local to one call,
// so the pipeline is reentrant across concurrent requests.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Steve-Jovs/rag-gmail-project/internal/answer"
	"github.com/Steve-Jovs/rag-gmail-project/internal/mailbox"
	"github.com/Steve-Jovs/rag-gmail-project/internal/models"
	"github.com/Steve-Jovs/rag-gmail-project/internal/query"
	"github.com/Steve-Jovs/rag-gmail-project/internal/search"
)

// ErrEmptyQuery reports a request without a natural-language question.
var ErrEmptyQuery = errors.New("rag: no query provided")

// Pipeline executes natural-language queries against a mailbox.
type Pipeline struct {
	translator  *query.Translator
	synthesizer *answer.Synthesizer
}

// New builds a pipeline from its two model-backed stages. The mail
// capability is not held here: it is injected per call, so session
// validity is decided by the caller at call time.
func New(translator *query.Translator, synthesizer *answer.Synthesizer) *Pipeline {
	return &Pipeline{translator: translator, synthesizer: synthesizer}
}

// Run answers one natural-language question using the given provider.
//
// Outcomes:
//   - validation failure (empty question) → ErrEmptyQuery
//   - unavailable mail capability → mailbox.ErrNotAuthenticated, before any
//     model call is made
//   - zero matches → a result whose answer names the translated query and
//     whose sources are empty
//   - otherwise → the synthesized (or fallback) answer with sources and
//     search metadata
func (p *Pipeline) Run(ctx context.Context, provider mailbox.Provider, req models.QueryRequest) (*models.QueryResult, error) {
	if req.NaturalQuery == "" {
		return nil, ErrEmptyQuery
	}
	if provider == nil {
		return nil, mailbox.ErrNotAuthenticated
	}
	req.Clamp()

	start := time.Now()
	slog.Info("query received", "query", req.NaturalQuery, "max_results", req.MaxResults)

	gmailQuery := p.translator.Translate(ctx, req.NaturalQuery)
	slog.Info("query translated", "gmail_query", gmailQuery)

	emails, err := search.Run(ctx, provider, gmailQuery, req.MaxResults)
	if err != nil {
		return nil, err
	}

	result := &models.QueryResult{
		Sources: emails,
		Metadata: models.SearchMetadata{
			OriginalQuery:       req.NaturalQuery,
			GmailQueryUsed:      gmailQuery,
			MaxResultsRequested: req.MaxResults,
			EmailsFound:         len(emails),
		},
	}

	if len(emails) == 0 {
		result.Sources = []models.ExtractedEmail{}
		result.Answer = fmt.Sprintf("No emails found for '%s'. I searched using: %s",
			req.NaturalQuery, gmailQuery)
		result.Metadata.ProcessingTime = formatElapsed(start)
		slog.Info("query matched nothing", "gmail_query", gmailQuery)
		return result, nil
	}

	emailContext := answer.BuildContext(emails)
	slog.Info("context prepared", "chars", len(emailContext))

	result.Answer = p.synthesizer.Synthesize(ctx, req.NaturalQuery, emailContext)
	result.Metadata.ProcessingTime = formatElapsed(start)

	slog.Info("query completed",
		"emails", len(emails),
		"elapsed", result.Metadata.ProcessingTime,
	)

	return result, nil
}

func formatElapsed(start time.Time) string {
	return fmt.Sprintf("%.2fs", time.Since(start).Seconds())
}
