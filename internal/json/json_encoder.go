package json

import (
	"encoding/json"
	"io"
)

// GetJsonEncoder returns an encoder that indents with two spaces.
func GetJsonEncoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder
}

// GetCompactEncoder returns an encoder that writes one value per line.
func GetCompactEncoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return encoder
}
