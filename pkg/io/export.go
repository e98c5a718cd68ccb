package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pipecanvas/pkg/document"
)

// WriteYAML encodes doc as YAML with two-space indentation.
func WriteYAML(doc *document.Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(doc *document.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Write encodes doc in the given format.
func Write(doc *document.Document, w io.Writer, f Format) error {
	if f == FormatJSON {
		return WriteJSON(doc, w)
	}
	return WriteYAML(doc, w)
}

// Encode returns the encoded bytes of doc.
func Encode(doc *document.Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFile writes doc to path, choosing the codec by extension.
func ExportFile(doc *document.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(doc, f, Detect(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
