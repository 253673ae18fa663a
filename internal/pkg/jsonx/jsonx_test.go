package jsonx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "trailing prose",
			raw:  `{"a":1} trailing text`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "leading prose",
			raw:  `Here is the quiz you asked for: {"a":1}`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "markdown fence",
			raw:  "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "nested objects",
			raw:  `Sure! {"outer":{"inner":{"a":1}},"b":2} done`,
			want: `{"outer":{"inner":{"a":1}},"b":2}`,
			ok:   true,
		},
		{
			name: "braces inside strings",
			raw:  `{"text":"use {curly} braces and a \" quote","n":3}`,
			want: `{"text":"use {curly} braces and a \" quote","n":3}`,
			ok:   true,
		},
		{
			name: "escaped backslash before closing quote",
			raw:  `noise {"path":"C:\\"} tail`,
			want: `{"path":"C:\\"}`,
			ok:   true,
		},
		{
			name: "no json",
			raw:  `no json here`,
			ok:   false,
		},
		{
			name: "unbalanced",
			raw:  `{"a": {"b": 1}`,
			ok:   false,
		},
		{
			name: "array is not an object",
			raw:  `[1,2,3]`,
			ok:   false,
		},
		{
			name: "empty input",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractObject(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			require.JSONEq(t, tt.want, string(got))

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(got, &decoded))
		})
	}
}

func TestExtractObjectSkipsInvalidCandidate(t *testing.T) {
	// The first balanced candidate is not valid JSON; the scanner must move
	// on to the next one instead of giving up.
	raw := `{broken} but then {"ok":true}`
	got, ok := ExtractObject(raw)
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(got))
}
