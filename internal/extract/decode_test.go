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
	"encoding/base64"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

// TestDecodeBody verifies the base64url decode path including the URL-safe
// alphabet translation and padding repair.
func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "standard content",
			data: base64.RawURLEncoding.EncodeToString([]byte("Hello world")),
			want: "Hello world",
		},
		{
			name: "missing padding",
			data: "SGVsbG8", // "Hello" without the trailing =
			want: "Hello",
		},
		{
			name: "url-safe alphabet",
			data: base64.RawURLEncoding.EncodeToString([]byte("\xfb\xff>subject?\xfe")),
			// Invalid UTF-8 bytes are dropped, the rest survives.
			want: ">subject?",
		},
		{
			name: "empty data",
			data: "",
			want: "",
		},
		{
			name: "malformed input",
			data: "!!!not base64!!!",
			want: "",
		},
		{
			name: "truncated garbage",
			data: "SGVsb$",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeBody(&gmail.MessagePartBody{Data: tt.data})
			if got != tt.want {
				t.Errorf("DecodeBody(%q) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}

// TestDecodeBody_NilBody verifies the nil guard.
func TestDecodeBody_NilBody(t *testing.T) {
	if got := DecodeBody(nil); got != "" {
		t.Errorf("DecodeBody(nil) = %q, want empty", got)
	}
}
