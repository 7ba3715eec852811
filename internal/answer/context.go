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

// Package answer renders retrieved emails into a model context block and
// synthesizes the final natural-language answer, with a deterministic
// fallback for when the model is unavailable.
package answer

import (
	"fmt"
	"strings"

	"github.com/Steve-Jovs/rag-gmail-project/internal/models"
)

// Labels of the per-email record lines in the context block. The fallback
// formatter parses the block back by these labels, so the two must agree.
const (
	subjectLabel = "Subject:"
	dateLabel    = "Date:"
	senderLabel  = "From:"
	contentLabel = "Content:"
)

// BuildContext renders the ordered result set into a single text block for
// the language model. Each email contributes a fixed four-line record
// followed by a blank separator; input order (already newest-first) is
// preserved. No overall cap is applied — each body was bounded upstream.
func BuildContext(emails []models.ExtractedEmail) string {
	records := make([]string, 0, len(emails))
	for _, e := range emails {
		records = append(records, fmt.Sprintf("%s %s\n%s %s\n%s %s\n%s %s\n",
			subjectLabel, e.Subject,
			dateLabel, e.Date,
			senderLabel, e.Sender,
			contentLabel, e.Body,
		))
	}
	return strings.Join(records, "\n")
}
