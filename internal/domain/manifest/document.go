package manifest

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

const (
	// NameField is the manifest member holding the package name.
	NameField = "name"
	// FilesField is the manifest member listing published files.
	FilesField = "files"

	// indent matches the two-space layout npm and JSON.stringify produce.
	indent = "  "
)

var (
	// ErrNotObject is returned when the manifest's top-level value is not a JSON object.
	ErrNotObject = errors.New("manifest is not a JSON object")
	// ErrInvalidJSON is returned when the manifest cannot be parsed.
	ErrInvalidJSON = errors.New("manifest is not valid JSON")
)

// Document is a JSON object whose members keep their original order.
type Document struct {
	// keys is the member order, first occurrence wins.
	keys []string
	// values holds the raw JSON of each member.
	values map[string]json.RawMessage
	// source is the document as it was parsed, nil for new documents.
	source []byte
}

// Parse decodes data into a Document.
func Parse(data []byte) (*Document, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	keys, err := memberOrder(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	values := make(map[string]json.RawMessage, len(keys))
	if err = json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return &Document{
		keys:   keys,
		values: values,
		source: append([]byte(nil), data...),
	}, nil
}

// memberOrder returns the top-level member names in document order, without duplicates.
func memberOrder(data []byte) ([]string, error) {
	var (
		decoder = json.NewDecoder(bytes.NewReader(data))
		keys    []string
		seen    = make(map[string]struct{})
		depth   int
		// expectKey is true when the next top-level token is a member name.
		expectKey bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return keys, nil
		}

		if err != nil {
			return nil, err
		}

		if delim, ok := token.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}

			expectKey = depth == 1

			continue
		}

		if depth != 1 {
			continue
		}

		if expectKey {
			key, ok := token.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected member name %v", token)
			}

			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				keys = append(keys, key)
			}
		}

		expectKey = !expectKey
	}
}

// Keys returns the member names in order.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Source returns the bytes the document was parsed from.
func (d *Document) Source() []byte {
	return d.source
}

// Set encodes value and stores it under key. Existing members keep their
// position, new members are appended.
func (d *Document) Set(key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.values[key] = raw

	return nil
}

// Name returns the package name, or an empty string when absent or not a string.
func (d *Document) Name() string {
	var name string
	if raw, ok := d.values[NameField]; ok {
		_ = json.Unmarshal(raw, &name)
	}

	return name
}

// Files returns the published file list, or nil when absent or malformed.
func (d *Document) Files() []string {
	var files []string
	if raw, ok := d.values[FilesField]; ok {
		if err := json.Unmarshal(raw, &files); err != nil {
			return nil
		}
	}

	return files
}

// SetName overwrites the package name.
func (d *Document) SetName(name string) error {
	return d.Set(NameField, name)
}

// SetFiles overwrites the published file list. A nil list is written as [].
func (d *Document) SetFiles(files []string) error {
	if files == nil {
		files = []string{}
	}

	return d.Set(FilesField, files)
}

// Marshal renders the document with two-space indentation and no trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	var compact bytes.Buffer

	compact.WriteByte('{')

	for i, key := range d.keys {
		if i > 0 {
			compact.WriteByte(',')
		}

		name, err := encode(key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", key, err)
		}

		compact.Write(name)
		compact.WriteByte(':')
		compact.Write(d.values[key])
	}

	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indent manifest: %w", err)
	}

	return out.Bytes(), nil
}

// encode marshals v without HTML escaping and without a trailing newline.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Digest returns the hex xxHash64 of data.
func Digest(data []byte) string {
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64(data))

	return hex.EncodeToString(buf[:])
}
