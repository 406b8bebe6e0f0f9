package configs

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader reads and parses a single configuration file on first use, then
// memoizes the result, mirroring the teacher's sync.OnceValues load shape.
type Loader struct {
	getDocument func() (RawDocument, error)
}

// NewLoader returns a Loader for filePath. Nothing is read until the
// first call to Document.
func NewLoader(filePath string) Loader {
	return Loader{
		getDocument: sync.OnceValues(func() (RawDocument, error) {
			content, err := os.ReadFile(filePath)
			if err != nil {
				return RawDocument{}, fmt.Errorf("configs: reading %s: %w", filePath, err)
			}
			var doc RawDocument
			if err := yaml.Unmarshal(content, &doc); err != nil {
				return RawDocument{}, fmt.Errorf("configs: parsing %s: %w", filePath, err)
			}
			return doc, nil
		}),
	}
}

// Document returns the parsed document, reading the backing file at most
// once regardless of how many times Document is called.
func (l Loader) Document() (RawDocument, error) {
	return l.getDocument()
}
