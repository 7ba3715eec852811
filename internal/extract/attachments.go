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
	gmail "google.golang.org/api/gmail/v1"

	"github.com/Steve-Jovs/rag-gmail-project/internal/models"
)

// Attachments lists the attachments among the immediate children of the
// payload, in document order. A part counts as an attachment only when it
// carries both a filename and a provider-assigned attachment ID — a bare
// filename (e.g. an inline image reference) is not enough. The walk is
// deliberately non-recursive: providers surface real attachments at the
// top level of the part tree.
func Attachments(payload *gmail.MessagePart) []models.AttachmentInfo {
	attachments := []models.AttachmentInfo{}
	if payload == nil {
		return attachments
	}

	for _, part := range payload.Parts {
		if part.Filename == "" || part.Body == nil || part.Body.AttachmentId == "" {
			continue
		}
		attachments = append(attachments, models.AttachmentInfo{
			Filename: part.Filename,
			MimeType: part.MimeType,
			Size:     part.Body.Size,
		})
	}

	return attachments
}
