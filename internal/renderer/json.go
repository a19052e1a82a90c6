package renderer

import (
	"encoding/json"
	"io"

	jsonenc "urlsentinel/internal/json"
	"urlsentinel/pkg/models"
)

type JSONRenderer struct {
	Indent bool
}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{Indent: true}
}

func NewJSONRendererCompact() *JSONRenderer {
	return &JSONRenderer{Indent: false}
}

func (j *JSONRenderer) Render(w io.Writer, result *models.ScanResult) error {
	if result == nil {
		return j.encoder(w).Encode(models.ErrorResult{Error: "result cannot be nil"})
	}
	return j.encoder(w).Encode(result)
}

// RenderError writes an ErrorResult.
func (j *JSONRenderer) RenderError(w io.Writer, message string) error {
	return j.encoder(w).Encode(models.ErrorResult{Error: message})
}

func (j *JSONRenderer) encoder(w io.Writer) *json.Encoder {
	if j.Indent {
		return jsonenc.GetJsonEncoder(w)
	}
	return jsonenc.GetCompactEncoder(w)
}
