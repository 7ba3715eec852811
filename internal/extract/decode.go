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

// Package extract turns a Gmail message payload tree into normalized plain
// text and attachment metadata. Payload trees are recursive, multipart and
// inconsistently encoded, so every decode path here degrades to an empty
// string instead of failing — a malformed part must never abort processing
// of the message around it.
package extract

import (
	"encoding/base64"
	"log/slog"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// DecodeBody decodes the base64url payload of a single message part body.
// Gmail serves body data in the URL-safe alphabet, usually without padding,
// so the data is mapped back to the standard alphabet and padded before
// decoding. Invalid UTF-8 sequences in the decoded bytes are dropped.
// DecodeBody never fails: any decode error yields "".
func DecodeBody(body *gmail.MessagePartBody) string {
	if body == nil || body.Data == "" {
		return ""
	}

	data := strings.ReplaceAll(body.Data, "-", "+")
	data = strings.ReplaceAll(data, "_", "/")
	if pad := len(data) % 4; pad != 0 {
		data += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		slog.Debug("body data failed to decode", "error", err, "data_len", len(body.Data))
		return ""
	}

	return strings.ToValidUTF8(string(decoded), "")
}
