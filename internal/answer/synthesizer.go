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

package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Steve-Jovs/rag-gmail-project/internal/llm"
)

// synthesizeTimeout bounds the answer call. Generous: the model may be
// reading up to a hundred emails of context.
const synthesizeTimeout = 200 * time.Second

// maxHighlights caps how many emails the fallback answer lists.
const maxHighlights = 5

const synthesisSystemPrompt = `You are a helpful email analyst. When answering questions about emails, please:

1. **Structure your response clearly** with headings and bullet points
2. **Summarize key findings** at the beginning
3. **Mention specific emails** with their dates and senders when relevant
4. **Use markdown-like formatting** for better readability
5. **Keep paragraphs concise** and focused
6. **Highlight important information** using bold text

Format your response like this:

## 📊 Summary
[Brief overview of what you found]

## 🔍 Key Findings
- Finding 1 with relevant details
- Finding 2 with relevant details

## 📧 Email Highlights
- **Email Subject** (Date) - Key insight
- **Another Subject** (Date) - Key insight

## 💡 Recommendations
1. First recommendation with proper spacing

2. Second recommendation on its own line

3. Third recommendation clearly separated`

// NoMatchesSummary is the fixed answer for an empty context; the model is
// never invoked in that case.
const NoMatchesSummary = "## 📊 Summary\nI searched your emails but didn't find any messages matching your query."

// Synthesizer turns a question plus assembled context into an answer.
type Synthesizer struct {
	completer llm.Completer
}

// NewSynthesizer creates a synthesizer over the given completion capability.
func NewSynthesizer(completer llm.Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Synthesize asks the model for a structured answer to the question given
// the email context. It never fails: an empty context short-circuits to the
// fixed no-results summary, and any model failure yields the deterministic
// fallback answer derived from the context text.
func (s *Synthesizer) Synthesize(ctx context.Context, question, emailContext string) string {
	if emailContext == "" {
		return NoMatchesSummary
	}

	userPrompt := fmt.Sprintf(`I found these emails related to your query. Please analyze them and provide a helpful response.

USER'S QUESTION: %s

EMAILS FOUND:
%s

Please provide a well-structured, easy-to-read answer:`, question, emailContext)

	result, err := s.completer.Complete(ctx, llm.Request{
		System:      synthesisSystemPrompt,
		User:        userPrompt,
		Temperature: 0.7,
		MaxTokens:   1500,
		Timeout:     synthesizeTimeout,
	})
	if err != nil {
		slog.Warn("answer synthesis failed, using fallback", "error", err)
		return Fallback(emailContext)
	}

	return result
}

// Fallback derives a structured answer purely from the context text,
// mirroring the record layout BuildContext produces. It counts emails by
// the Subject: label, collects subject/date/sender triples (a record is
// complete when its From: line is seen), highlights up to five, and notes
// how many more exist.
func Fallback(emailContext string) string {
	if emailContext == "" {
		return NoMatchesSummary
	}

	emailCount := strings.Count(emailContext, subjectLabel)
	if emailCount == 0 {
		return "## 📊 Summary\nNo relevant emails found for your search."
	}

	var subjects, dates, senders []string
	var curSubject, curDate, curSender string

	for _, line := range strings.Split(emailContext, "\n") {
		switch {
		case strings.HasPrefix(line, subjectLabel):
			curSubject = strings.TrimSpace(strings.TrimPrefix(line, subjectLabel))
		case strings.HasPrefix(line, dateLabel):
			curDate = strings.TrimSpace(strings.TrimPrefix(line, dateLabel))
		case strings.HasPrefix(line, senderLabel):
			curSender = strings.TrimSpace(strings.TrimPrefix(line, senderLabel))
			// A sender line completes one record.
			if curSubject != "" && curSubject != "No Subject" {
				subjects = append(subjects, curSubject)
				dates = append(dates, curDate)
				senders = append(senders, curSender)
			}
		}
	}

	distinct := make(map[string]bool, len(senders))
	for _, s := range senders {
		distinct[s] = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## 📊 Summary\nI found %d email(s) related to your question.\n\n", emailCount)
	sb.WriteString("## 🔍 Key Findings\n")
	fmt.Fprintf(&sb, "- Messages come from %d distinct sender(s)\n", len(distinct))
	sb.WriteString("- Results are ordered newest to oldest\n\n")
	sb.WriteString("## 📧 Email Highlights")

	for i := 0; i < len(subjects) && i < maxHighlights; i++ {
		fmt.Fprintf(&sb, "\n- **%s** (%s) - From: %s", subjects[i], formatDateDisplay(dates[i]), senders[i])
	}

	if emailCount > maxHighlights {
		fmt.Fprintf(&sb, "\n- ... and %d more emails", emailCount-maxHighlights)
	}

	sb.WriteString("\n\n## 💡 Next Steps\nYou can click on any email below to open it in Gmail for more details.")

	return sb.String()
}

// formatDateDisplay reformats a raw Date header for display. Headers that
// do not parse as RFC 1123 with a numeric zone pass through untouched.
func formatDateDisplay(raw string) string {
	if raw == "" || raw == "Unknown Date" {
		return "Unknown date"
	}

	t, err := time.Parse("Mon, 02 Jan 2006 15:04:05 -0700", raw)
	if err != nil {
		return raw
	}
	return t.Format("Jan 02, 2006")
}
