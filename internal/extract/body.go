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

package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// MaxBodyChars caps the normalized body length, marker excluded.
	MaxBodyChars = 3000

	// minBreakOffset is the earliest acceptable word boundary for smart
	// truncation. A boundary before this point would lose too much text,
	// so the body is hard-cut at MaxBodyChars instead.
	minBreakOffset = 2500

	// TruncationMarker is appended whenever a body is cut.
	TruncationMarker = "... [truncated]"

	// NoContentPlaceholder is returned when nothing readable was found, so
	// extraction never yields an empty body silently.
	NoContentPlaceholder = "No readable content extracted from email."
)

var (
	htmlTagRe   = regexp.MustCompile(`<[^<]+?>`)
	wsRunRe     = regexp.MustCompile(`\s+`)
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
	spaceTabRe  = regexp.MustCompile(`[ \t]+`)
)

// bodyKind tags which branch of the part tree produced a body result, so
// the plain-text-beats-HTML priority is explicit data rather than implicit
// control flow.
type bodyKind int

const (
	kindNone bodyKind = iota
	kindHTML
	kindPlain
)

type bodyResult struct {
	kind bodyKind
	text string
}

// Body extracts one normalized text body from a message payload tree.
//
// Priority, depth-first over children in document order:
//   - a text/plain part that decodes non-empty wins outright, at any depth
//   - a text/html part is only a fallback candidate; the first one found is
//     kept (tags stripped, whitespace collapsed) unless plain text shows up
//   - nothing readable yields NoContentPlaceholder
//
// The result is whitespace-normalized and capped at MaxBodyChars with
// TruncationMarker appended when cut.
func Body(payload *gmail.MessagePart) string {
	if payload == nil {
		return NoContentPlaceholder
	}

	var res bodyResult
	if len(payload.Parts) == 0 {
		// Simple message without parts: the payload carries its own body.
		res = bodyResult{kind: kindPlain, text: DecodeBody(payload.Body)}
	} else {
		res = walkParts(payload.Parts)
	}

	text := normalizeWhitespace(res.text)
	if text == "" {
		return NoContentPlaceholder
	}
	return truncateBody(text)
}

// walkParts implements the priority walk over one level of the part tree.
// A plain-text result returns immediately, including one surfacing from
// recursion; an HTML result only fills an empty candidate slot.
func walkParts(parts []*gmail.MessagePart) bodyResult {
	candidate := bodyResult{kind: kindNone}

	for _, part := range parts {
		switch part.MimeType {
		case "text/plain":
			if text := DecodeBody(part.Body); text != "" {
				return bodyResult{kind: kindPlain, text: text}
			}
		case "text/html":
			if candidate.kind == kindNone {
				if text := DecodeBody(part.Body); text != "" {
					candidate = bodyResult{kind: kindHTML, text: stripHTML(text)}
				}
			}
		}

		if len(part.Parts) > 0 {
			nested := walkParts(part.Parts)
			if nested.kind == kindPlain {
				return nested
			}
			if nested.kind == kindHTML && candidate.kind == kindNone {
				candidate = nested
			}
		}
	}

	return candidate
}

// stripHTML removes tag markup and collapses all whitespace runs to single
// spaces. It is a pattern-level cleanup, not an HTML parser — good enough
// for feeding body text to a language model.
func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = wsRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// normalizeWhitespace collapses runs of blank lines to one blank line
// (preserving paragraph boundaries), collapses spaces and tabs, and trims.
func normalizeWhitespace(s string) string {
	s = blankLineRe.ReplaceAllString(s, "\n\n")
	s = spaceTabRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncateBody cuts bodies longer than MaxBodyChars at the last word
// boundary at or before the cap, falling back to a hard cut when the
// boundary sits too early, and appends TruncationMarker either way.
// All offsets are rune offsets, so multi-byte text truncates at the
// same character positions as ASCII.
func truncateBody(s string) string {
	if utf8.RuneCountInString(s) <= MaxBodyChars {
		return s
	}

	head := []rune(s)[:MaxBodyChars]
	for i := len(head) - 1; i > minBreakOffset; i-- {
		if head[i] == ' ' {
			return string(head[:i]) + TruncationMarker
		}
	}
	return string(head) + TruncationMarker
}
