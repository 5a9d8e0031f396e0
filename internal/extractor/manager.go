package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"db-objects/internal/model"

	"golang.org/x/text/encoding/charmap"
)

// Manager reads source files and runs them through a classifier
type Manager struct {
	classifier model.Classifier
}

func NewManager(c model.Classifier) *Manager {
	if c == nil {
		c = NewRegexExtractor()
	}
	return &Manager{classifier: c}
}

// Extract reads file, classifies it under its base name and stamps each
// event with the file's provenance.
func (m *Manager) Extract(file model.SourceFile) ([]model.ObjectEvent, error) {
	text, err := ReadText(file.Path)
	if err != nil {
		return nil, err
	}

	events := m.classifier.Classify(text, filepath.Base(file.Path))
	for i := range events {
		events[i].Source = file.Provenance
	}
	return events, nil
}

// ReadText returns the file contents as UTF-8. Content that is not valid
// UTF-8 is decoded as ISO-8859-1, which accepts every byte sequence.
// A leading byte order mark is dropped.
func ReadText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(content)
}

func Decode(content []byte) (string, error) {
	if utf8.Valid(content) {
		return strings.TrimPrefix(string(content), "\ufeff"), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decoding as latin-1: %w", err)
	}
	return string(decoded), nil
}
