package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	headerColor  = color.New(color.Bold, color.FgCyan)
	warningColor = color.New(color.FgRed)
)

// render writes v as JSON or YAML, or calls text for the human format.
func render(w io.Writer, format OutputFormat, v any, text func(w io.Writer) error) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json.Encode() > %w", err)
		}
		return nil
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml.Encode() > %w", err)
		}
		return enc.Close()
	default:
		return text(w)
	}
}

func header(w io.Writer, format string, args ...any) error {
	_, err := headerColor.Fprintf(w, format+"\n", args...)
	return err
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
