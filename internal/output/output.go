// Package output renders command results as aligned text tables or JSON.
package output

import (
	"fmt"
	"io"
)

// Format represents the output format type.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// FormatFor returns FormatJSON when jsonOut is set.
func FormatFor(jsonOut bool) Format {
	if jsonOut {
		return FormatJSON
	}
	return FormatText
}

// Formatter is the interface for output formatters.
// Types implementing this interface can output in text or JSON format.
type Formatter interface {
	FormatText() string
	FormatJSON() ([]byte, error)
}

// FormatOutput formats the given Formatter based on the specified format.
func FormatOutput(f Formatter, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := f.FormatJSON()
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return f.FormatText(), nil
	}
}

// Print writes the formatted output followed by a newline.
// Empty text output prints nothing.
func Print(w io.Writer, f Formatter, format Format) error {
	out, err := FormatOutput(f, format)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
