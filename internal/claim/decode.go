package claim

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Decoded is the tagged result of decoding reasoning output: either the
// decoded value (OK) or the stage's fallback together with the reason.
type Decoded[T any] struct {
	Value T
	OK    bool
	Err   error
}

// Decode parses raw reasoning output as a single JSON value of type T after
// stripping any markdown code fence. On any failure it returns fallback.
// A bare null or trailing content counts as a failure.
func Decode[T any](raw string, fallback T) Decoded[T] {
	text := StripCodeFence(raw)
	if text == "" {
		return Decoded[T]{Value: fallback, Err: eris.New("decode: empty output")}
	}
	if text == "null" {
		return Decoded[T]{Value: fallback, Err: eris.New("decode: null output")}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var v T
	if err := dec.Decode(&v); err != nil {
		return Decoded[T]{Value: fallback, Err: eris.Wrap(err, "decode: invalid JSON")}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Decoded[T]{Value: fallback, Err: eris.New("decode: trailing content after JSON value")}
	}
	return Decoded[T]{Value: v, OK: true}
}

// StripCodeFence removes a surrounding markdown code fence, with or without
// a json language tag, and trims whitespace.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = text[4:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
