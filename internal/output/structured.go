package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/skalanux/ktm/internal/history"
)

// JSONFormatter writes entries as an indented JSON array.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// YAMLFormatter writes entries as a YAML sequence.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}
