package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// OCRAvailable reports whether pdftoppm and tesseract are on PATH.
func OCRAvailable() bool {
	for _, tool := range []string{"pdftoppm", "tesseract"} {
		if _, err := exec.LookPath(tool); err != nil {
			return false
		}
	}
	return true
}

// extractWithOCR renders each page to a 300 DPI PNG and reads it back with
// tesseract. It is the last resort for scanned statements.
func extractWithOCR(ctx context.Context, path string) ([]string, error) {
	if !OCRAvailable() {
		return nil, fmt.Errorf("ocr tools not installed (need pdftoppm and tesseract)")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	dir, err := os.MkdirTemp("", "statement-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("ocr temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if out, err := exec.CommandContext(ctx, "pdftoppm", "-r", "300", "-png", path, prefix).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return nil, fmt.Errorf("list page images: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}
	// pdftoppm zero-pads page numbers, so name order is page order.
	sort.Strings(images)

	var pages []string
	for _, img := range images {
		base := strings.TrimSuffix(img, ".png") + "-ocr"
		// PSM 4: a single column of variably sized text.
		cmd := exec.CommandContext(ctx, "tesseract", img, base, "-l", "eng", "--psm", "4")
		if out, err := cmd.CombinedOutput(); err != nil {
			slog.Warn("tesseract failed on page image",
				"image", filepath.Base(img), "error", err, "output", strings.TrimSpace(string(out)))
			continue
		}
		data, err := os.ReadFile(base + ".txt")
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("tesseract read no text from %d page images", len(images))
	}
	return pages, nil
}
