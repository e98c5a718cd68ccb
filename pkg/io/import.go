package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// ReadYAML decodes a YAML document from r. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	var doc document.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode yaml")
	}
	return &doc, nil
}

// ReadJSON decodes a JSON document from r. Trailing data after the document
// is rejected. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*document.Document, error) {
	dec := json.NewDecoder(r)
	var doc document.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode json")
	}
	if dec.More() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "decode json: trailing data after document")
	}
	return &doc, nil
}

// Read decodes a document in the given format.
func Read(r io.Reader, f Format) (*document.Document, error) {
	if f == FormatJSON {
		return ReadJSON(r)
	}
	return ReadYAML(r)
}

// Decode decodes raw bytes, sniffing the format.
func Decode(data []byte) (*document.Document, error) {
	return Read(bytes.NewReader(data), Sniff(data))
}

// ImportFile reads the document at path, choosing the codec by extension.
func ImportFile(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, Detect(path))
}
