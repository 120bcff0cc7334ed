package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestDecode_Success(t *testing.T) {
	type payload struct {
		A int `json:"a"`
	}
	got := Decode("```json\n{\"a\": 3}\n```", payload{A: -1})
	require.True(t, got.OK)
	require.NoError(t, got.Err)
	assert.Equal(t, 3, got.Value.A)
}

func TestDecode_FailuresReturnFallback(t *testing.T) {
	type payload struct {
		A int `json:"a"`
	}
	fallback := payload{A: -1}

	for name, raw := range map[string]string{
		"empty":          "   ",
		"prose":          "Sure! Here is the JSON you asked for.",
		"null":           "null",
		"truncated":      `{"a": 1`,
		"trailing":       `{"a": 1} and some commentary`,
		"two values":     `{"a": 1}{"a": 2}`,
		"type mismatch":  `{"a": "one"}`,
		"wrong top type": `[1, 2]`,
	} {
		t.Run(name, func(t *testing.T) {
			got := Decode(raw, fallback)
			assert.False(t, got.OK)
			assert.Error(t, got.Err)
			assert.Equal(t, fallback, got.Value)
		})
	}
}
