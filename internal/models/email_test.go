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

package models

import "testing"

func TestQueryRequestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero clamps to minimum", 0, 1},
		{"negative clamps to minimum", -1, 1},
		{"minimum kept", 1, 1},
		{"in range kept", 42, 42},
		{"cap kept", MaxResultsCap, MaxResultsCap},
		{"over cap clamped", 1000, MaxResultsCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := QueryRequest{NaturalQuery: "q", MaxResults: tt.in}
			r.Clamp()
			if r.MaxResults != tt.want {
				t.Errorf("Clamp(%d) = %d, want %d", tt.in, r.MaxResults, tt.want)
			}
		})
	}
}
