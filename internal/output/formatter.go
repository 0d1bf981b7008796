// Package output renders lookup reports as tables, plain text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Format is the output format requested by the user.
type Format string

// Output format constants supported by the --output flag.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// Formats lists every supported format, default first.
var Formats = []Format{FormatTable, FormatJSON, FormatPlain}

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unsupported output format: %q (want table, json or plain)", s)
	}
	return f, nil
}

// TableFormattable values know how to render themselves as an ASCII table.
type TableFormattable interface {
	WriteTable(w io.Writer) error
}

// PlainFormattable values render one record per line, for piping into other tools.
type PlainFormattable interface {
	WritePlain(w io.Writer) error
}

// Write dispatches v to the formatter for format.
// JSON uses json.Encoder with indentation; table and plain require v to
// implement TableFormattable and PlainFormattable respectively.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatTable:
		tf, ok := v.(TableFormattable)
		if !ok {
			return fmt.Errorf("result type %T does not support table output", v)
		}
		return tf.WriteTable(w)
	case FormatPlain:
		pf, ok := v.(PlainFormattable)
		if !ok {
			return fmt.Errorf("result type %T does not support plain output", v)
		}
		return pf.WritePlain(w)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}
