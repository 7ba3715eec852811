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
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func attachment(filename, mimeType, attachmentID string, size int64) *gmail.MessagePart {
	return &gmail.MessagePart{
		Filename: filename,
		MimeType: mimeType,
		Body:     &gmail.MessagePartBody{AttachmentId: attachmentID, Size: size},
	}
}

func TestAttachments(t *testing.T) {
	payload := multipart("multipart/mixed",
		leaf("text/plain", "body text"),
		attachment("report.pdf", "application/pdf", "att-1", 2048),
		attachment("photo.jpg", "image/jpeg", "att-2", 4096),
	)

	got := Attachments(payload)
	if len(got) != 2 {
		t.Fatalf("Attachments() returned %d entries, want 2", len(got))
	}
	if got[0].Filename != "report.pdf" || got[0].MimeType != "application/pdf" || got[0].Size != 2048 {
		t.Errorf("first attachment = %+v", got[0])
	}
	if got[1].Filename != "photo.jpg" {
		t.Errorf("attachments out of order: second = %+v", got[1])
	}
}

func TestAttachments_SkipsIncompleteParts(t *testing.T) {
	tests := []struct {
		name string
		part *gmail.MessagePart
	}{
		{
			name: "no filename",
			part: attachment("", "application/pdf", "att-1", 100),
		},
		{
			name: "no attachment id",
			part: attachment("inline.png", "image/png", "", 100),
		},
		{
			name: "no body",
			part: &gmail.MessagePart{Filename: "ghost.txt", MimeType: "text/plain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Attachments(multipart("multipart/mixed", tt.part))
			if len(got) != 0 {
				t.Errorf("Attachments() = %+v, want none", got)
			}
		})
	}
}

func TestAttachments_ImmediateChildrenOnly(t *testing.T) {
	payload := multipart("multipart/mixed",
		multipart("multipart/related",
			attachment("nested.pdf", "application/pdf", "att-9", 512),
		),
	)
	if got := Attachments(payload); len(got) != 0 {
		t.Errorf("Attachments() found nested parts: %+v", got)
	}
}

func TestAttachments_NilAndEmptyPayload(t *testing.T) {
	if got := Attachments(nil); got == nil || len(got) != 0 {
		t.Errorf("Attachments(nil) = %v, want empty non-nil slice", got)
	}
	if got := Attachments(leaf("text/plain", "hi")); got == nil || len(got) != 0 {
		t.Errorf("Attachments(leaf) = %v, want empty non-nil slice", got)
	}
}
