package io

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// Format is a document exchange format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name as given on the command line or in a
// query string. The empty string means YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want yaml or json)", s)
}

// Detect returns the format implied by a file extension. Unknown extensions
// default to YAML, the format CI systems expect.
func Detect(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Sniff guesses the format of raw input: a leading '{' means JSON.
func Sniff(data []byte) Format {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}

// ContentType returns the MIME type used when serving the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "application/yaml"
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yml"
}
