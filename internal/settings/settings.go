// Package settings parses the deployment settings document.
//
// The document is a YAML tree loaded into koanf with "." as the path
// delimiter, so callers address values as `services.backend.public_url`.
// Missing paths are normal and read back as nil.
package settings

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	koanf "github.com/knadh/koanf/v2"
)

// Document is a read-only view over a parsed settings tree.
type Document struct {
	k *koanf.Koanf
}

// Parse decodes YAML bytes into a Document.  Empty input yields an empty
// Document rather than an error.
func Parse(b []byte) (*Document, error) {
	k := koanf.New(".")
	if err := k.Load(rawBytes(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &Document{k: k}, nil
}

// Get returns the raw value at a dotted path, or nil when absent.
func (d *Document) Get(path string) any {
	return d.k.Get(path)
}

// Has reports whether the path exists in the document.
func (d *Document) Has(path string) bool {
	return d.k.Exists(path)
}

// Keys lists every leaf path, sorted.
func (d *Document) Keys() []string {
	return d.k.Keys()
}

// rawBytes feeds an in-memory buffer to koanf.  Reading is done by the
// caller so read and parse failures stay distinguishable.
type rawBytes []byte

func (r rawBytes) ReadBytes() ([]byte, error) { return r, nil }

func (r rawBytes) Read() (map[string]any, error) {
	return nil, errors.New("settings: raw bytes need a parser")
}
