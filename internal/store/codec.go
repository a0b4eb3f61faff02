package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format chosen by file extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("store: %s: unsupported extension (want .json, .yaml or .yml)", path)
	}
}

// Unmarshal decodes data into v using the format implied by path. Unknown
// fields are rejected in both formats.
func Unmarshal(path string, data []byte, v any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("store: decode json %s: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("store: decode yaml %s: %w", path, err)
		}
	}
	return nil
}

// Marshal encodes v in the format implied by path.
func Marshal(path string, v any) ([]byte, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("store: encode json %s: %w", path, err)
		}
		return append(b, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("store: encode yaml %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("store: encode yaml %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
