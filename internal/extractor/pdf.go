package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when none of the extraction methods produced
// readable statement text, typically for scanned or custom-encoded PDFs.
var ErrNoText = errors.New("no readable text in PDF")

// Reader pulls page text out of statement PDFs. The zero value uses only the
// in-process PDF library.
type Reader struct {
	// Pdftotext enables the poppler pdftotext command as a fallback.
	Pdftotext bool
	// OCR enables rendering pages with pdftoppm and reading them with
	// tesseract when no text layer can be decoded.
	OCR bool
}

// ExtractText reads a PDF with every fallback enabled.
func ExtractText(ctx context.Context, path string) ([]string, error) {
	return Reader{Pdftotext: true, OCR: true}.ExtractText(ctx, path)
}

// ExtractText returns the text of each page of the PDF at path. The library
// is tried first; the external tools run only if it yields nothing readable.
func (r Reader) ExtractText(ctx context.Context, path string) ([]string, error) {
	pages, libErr := extractWithLibrary(path)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.Pdftotext {
		if pages, err := extractWithPdftotext(ctx, path); err == nil && isReadableText(pages) {
			return pages, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if r.OCR {
		if pages, err := extractWithOCR(ctx, path); err == nil && isReadableText(pages) {
			return pages, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoText, path, libErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoText, path)
}

// Engine names the extraction methods r will try, e.g. "pdf+pdftotext".
func (r Reader) Engine() string {
	methods := []string{"pdf"}
	if r.Pdftotext {
		methods = append(methods, "pdftotext")
	}
	if r.OCR {
		methods = append(methods, "ocr")
	}
	return strings.Join(methods, "+")
}

// JoinPages combines page texts into a single document, one page per line.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n")
}

// textQuality returns the share of characters that are ASCII letters,
// digits, whitespace, punctuation or a currency sign. Garbage from
// identity-encoded fonts tends to be accented letters, so unicode.IsLetter
// is too broad here.
func textQuality(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if isReadableRune(r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func isReadableRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune(".,-/:;()'\"%&@#!?+=*₹$£€–—", r)
}

// statementWords appear on virtually every card statement. Text that has
// none of them is treated as a failed decode.
var statementWords = []string{
	"card", "statement", "payment", "due", "total", "amount", "balance",
	"billing", "credit", "account", "bank", "date", "period", "limit",
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 50 characters, over 60% readable
// characters and at least one statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}

// IsReadableText reports whether pages look like decoded statement text.
func IsReadableText(pages []string) bool {
	return isReadableText(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// extractWithLibrary runs the ledongthuc/pdf methods in order of layout
// fidelity and returns the first readable result.
func extractWithLibrary(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	if text := extractByReaderPlainText(r); isReadableText([]string{text}) {
		return []string{text}, nil
	}

	return pages, nil
}

// extractByRow joins the words of each text row.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent rebuilds rows from raw text objects, grouping them by
// rounded Y coordinate top to bottom and ordering each row by X.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type piece struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]piece)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], piece{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		lines := make([]string, 0, len(ys))
		for _, y := range ys {
			row := rows[y]
			sort.Slice(row, func(a, b int) bool { return row[a].x < row[b].x })

			var b strings.Builder
			for j, p := range row {
				// Wide gaps separate label and value columns.
				if j > 0 && p.x-row[j-1].x > 15 {
					b.WriteString(" ")
				}
				b.WriteString(p.s)
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	rd, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext runs poppler's pdftotext page by page so page
// boundaries survive.
func extractWithPdftotext(ctx context.Context, path string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := max(pdfPageCount(ctx, path), 1)

	var pages []string
	for i := 1; i <= numPages; i++ {
		n := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", n, "-l", n, path, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no text")
	}
	return pages, nil
}

// pdfPageCount asks pdfinfo for the page count and returns 0 when it cannot.
func pdfPageCount(ctx context.Context, path string) int {
	out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if v, ok := strings.CutPrefix(line, "Pages:"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}
