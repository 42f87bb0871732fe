package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidSampleName is returned for names that are not a plain .pdf file
// name inside the samples directory.
var ErrInvalidSampleName = errors.New("invalid sample name")

// ListSamples returns the names of the PDF files directly inside dir, sorted.
func ListSamples(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && isPDFName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// SamplePath resolves a sample name to its path inside dir. Names with path
// separators, parent references or a non-PDF extension are rejected.
func SamplePath(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") || !isPDFName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSampleName, name)
	}
	return filepath.Join(dir, name), nil
}

func isPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
