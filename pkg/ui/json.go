package ui

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes v as indented JSON for machine consumption.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
