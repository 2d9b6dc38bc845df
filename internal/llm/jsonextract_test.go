package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
			ok:    true,
		},
		{
			name:  "code fenced",
			input: "Here you go:\n```json\n{\"tool\":\"addScene\"}\n```",
			want:  `{"tool":"addScene"}`,
			ok:    true,
		},
		{
			name:  "nested braces",
			input: `prefix {"outer":{"inner":[1,2]}} suffix`,
			want:  `{"outer":{"inner":[1,2]}}`,
			ok:    true,
		},
		{
			name:  "braces inside strings ignored",
			input: `{"text":"curly } brace { soup"}`,
			want:  `{"text":"curly } brace { soup"}`,
			ok:    true,
		},
		{
			name:  "escaped quote inside string",
			input: `{"text":"she said \"}\" loudly"}`,
			want:  `{"text":"she said \"}\" loudly"}`,
			ok:    true,
		},
		{
			name:  "no object",
			input: "just prose, no json here",
			ok:    false,
		},
		{
			name:  "unterminated object",
			input: `{"a": 1`,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstJSONObject(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
