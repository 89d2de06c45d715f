package report

import (
	"encoding/json"
	"io"
)

// JSONRenderer writes machine-readable output
type JSONRenderer struct {
	w io.Writer
}

// NewJSONRenderer creates a JSON renderer writing to w
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

// Render writes v as indented JSON
func (r *JSONRenderer) Render(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
