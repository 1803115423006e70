package console

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"termcanvas/internal/segment"
)

// Validate 检查条目形状：kind 必须是 input/output，text 必须是合法 UTF-8。
func Validate(entry segment.Entry) error {
	if !entry.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: "must be \"input\" or \"output\""}
	}
	if !utf8.ValidString(entry.Text) {
		return &ValidationError{Field: "text", Reason: "not valid UTF-8"}
	}
	return nil
}

// ParseEntry decodes the JSON call shape {"kind":"input|output","text":"...","replace":false}.
// replace is optional and defaults to false.
func ParseEntry(data []byte) (segment.Entry, error) {
	var raw struct {
		Kind    json.RawMessage `json:"kind"`
		Text    json.RawMessage `json:"text"`
		Replace json.RawMessage `json:"replace"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return segment.Entry{}, &ValidationError{Field: "entry", Reason: err.Error()}
	}

	var entry segment.Entry
	var kind string
	if !decodeString(raw.Kind, &kind) {
		return segment.Entry{}, &ValidationError{Field: "kind", Reason: "must be a string"}
	}
	entry.Kind = segment.Kind(kind)
	if !decodeString(raw.Text, &entry.Text) {
		return segment.Entry{}, &ValidationError{Field: "text", Reason: "must be a string"}
	}
	if len(raw.Replace) > 0 && !isNull(raw.Replace) {
		if err := json.Unmarshal(raw.Replace, &entry.Replace); err != nil {
			return segment.Entry{}, &ValidationError{Field: "replace", Reason: "must be a boolean"}
		}
	}
	if err := Validate(entry); err != nil {
		return segment.Entry{}, err
	}
	return entry, nil
}

func decodeString(raw json.RawMessage, dst *string) bool {
	if len(raw) == 0 || isNull(raw) {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
