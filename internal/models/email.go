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

// Package models defines the data structures shared across the RAG service.
package models

// AttachmentInfo describes a non-inline message part that carries a file.
type AttachmentInfo struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// ExtractedEmail is one fetched message after body extraction and
// attachment scanning. Immutable once built; the JSON field names are part
// of the HTTP contract with the frontend.
type ExtractedEmail struct {
	Subject      string           `json:"subject"`
	Sender       string           `json:"sender"`
	Date         string           `json:"date"`
	InternalDate int64            `json:"internal_date"`
	Body         string           `json:"body"`
	Snippet      string           `json:"snippet"`
	MessageID    string           `json:"message_id"`
	Attachments  []AttachmentInfo `json:"attachments"`
	BodyLength   int              `json:"body_length"`
}

const (
	// DefaultMaxResults is used when the caller omits max_results or sends
	// a value that does not parse. Substitution happens where absence can
	// be told apart from an explicit value — the HTTP layer and the CLI
	// flag default — not here.
	DefaultMaxResults = 10

	// MaxResultsCap bounds how many messages a single query may fetch.
	MaxResultsCap = 100
)

// QueryRequest is one natural-language question against the mailbox.
type QueryRequest struct {
	NaturalQuery string
	MaxResults   int
}

// Clamp normalises MaxResults into [1, MaxResultsCap]. An explicit zero
// or negative value clamps to 1.
func (r *QueryRequest) Clamp() {
	if r.MaxResults < 1 {
		r.MaxResults = 1
	}
	if r.MaxResults > MaxResultsCap {
		r.MaxResults = MaxResultsCap
	}
}

// SearchMetadata describes how a query was executed.
type SearchMetadata struct {
	OriginalQuery       string `json:"original_query"`
	GmailQueryUsed      string `json:"gmail_query_used"`
	MaxResultsRequested int    `json:"max_results_requested"`
	EmailsFound         int    `json:"emails_found"`
	ProcessingTime      string `json:"processing_time"`
}

// QueryResult is the full outcome of one pipeline run.
type QueryResult struct {
	Answer   string           `json:"answer"`
	Sources  []ExtractedEmail `json:"sources"`
	Metadata SearchMetadata   `json:"search_metadata"`
}
