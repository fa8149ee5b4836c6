package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/objwrap/pkg/objwrap"
)

var (
	// ErrNotMapping indicates the document root is not a mapping/object.
	ErrNotMapping = errors.New("document root is not a mapping")

	// ErrUnsupportedFormat indicates a file extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported config file extension")
)

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string, opts ...objwrap.Option) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data, opts...)
	case ".json":
		return FromJSON(data, opts...)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// FromYAML parses a YAML mapping into a Config. The wrapper's iteration
// order is the document's key order. Empty input yields an empty Config.
func FromYAML(data []byte, opts ...objwrap.Option) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Wrap(objwrap.New[any](nil, opts...)), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("parse yaml: %w", ErrNotMapping)
	}

	entries := make([]objwrap.Entry[any], 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		var v any
		if err := root.Content[i+1].Decode(&v); err != nil {
			return Config{}, fmt.Errorf("decode yaml key %q: %w", root.Content[i].Value, err)
		}
		entries = append(entries, objwrap.Entry[any]{Key: root.Content[i].Value, Value: v})
	}
	return Wrap(objwrap.NewOrdered(entries, opts...)), nil
}

// FromJSON parses a JSON object into a Config, keeping the object's key
// order. Whole numbers decode as int and other numbers as float64, the same
// types FromYAML produces.
func FromJSON(data []byte, opts ...objwrap.Option) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Config{}, fmt.Errorf("parse json: %w", ErrNotMapping)
	}

	var entries []objwrap.Entry[any]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Config{}, fmt.Errorf("parse json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Config{}, fmt.Errorf("parse json: unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return Config{}, fmt.Errorf("decode json key %q: %w", key, err)
		}
		entries = append(entries, objwrap.Entry[any]{Key: key, Value: normalizeNumbers(v)})
	}

	if _, err := dec.Token(); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Config{}, fmt.Errorf("parse json: trailing data after object")
	}
	return Wrap(objwrap.NewOrdered(entries, opts...)), nil
}

// normalizeNumbers replaces every json.Number in v with an int when it is a
// whole number that fits, or a float64 otherwise.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(val.String(), 10, 0); err == nil {
			return int(i)
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeNumbers(item)
		}
	case []any:
		for i, item := range val {
			val[i] = normalizeNumbers(item)
		}
	}
	return v
}

// ParseValue decodes a command-line scalar the way a YAML document would,
// so "42" becomes int 42 and "true" becomes a bool. Anything that does not
// decode to a scalar, including the empty string, is returned unchanged.
func ParseValue(s string) any {
	if s == "" {
		return s
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case nil, map[string]any, []any:
		return s
	}
	return v
}

// ParseValueLike decodes s with ParseValue unless current is a string, in
// which case s is kept verbatim. It lets "04" replace a string value without
// turning into the number 4.
func ParseValueLike(current any, s string) any {
	if _, ok := current.(string); ok {
		return s
	}
	return ParseValue(s)
}
