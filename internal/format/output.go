// Package format writes command output.
package format

import (
	"encoding/json"
	"io"
)

// WriteJSON writes v as one JSON document followed by a newline.
// HTML escaping is off so task content such as "a < b & c" prints as typed.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
