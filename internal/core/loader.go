// ABOUTME: Corpus file loading for ingestion, walking a directory tree
// ABOUTME: Plain text and markdown read directly, PDFs via text extraction
package core

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is one loaded corpus file, identified by its path relative to
// the ingestion root.
type Document struct {
	Source string
	Text   string
}

var supportedExts = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".pdf":      true,
}

// LoadCorpus walks dir and loads every supported file. Unreadable files are
// skipped, reported via skip, and never abort the walk; only a missing or
// unwalkable root is an error.
func LoadCorpus(dir string, skip func(path string, err error)) ([]Document, error) {
	if skip == nil {
		skip = func(string, error) {}
	}

	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			skip(path, err)
			return nil
		}
		if d.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		text, readErr := readFile(path)
		if readErr != nil {
			skip(path, readErr)
			return nil
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}

		source := path
		if rel, relErr := filepath.Rel(dir, path); relErr == nil {
			source = rel
		}
		docs = append(docs, Document{Source: source, Text: text})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus directory: %w", err)
	}
	return docs, nil
}

func readFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (text string, err error) {
	// The pdf parser panics on some malformed inputs; a bad file must
	// surface as a skippable error, not take down the walk.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	body, err := rdr.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}
