package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
)

type stubSource struct {
	pages []string
	err   error
}

func (s stubSource) ExtractText(context.Context, string) ([]string, error) {
	return s.pages, s.err
}

func TestProcessFile(t *testing.T) {
	ex, err := parser.New()
	require.NoError(t, err)

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	txt := write("hdfc.txt", "HDFC Bank\nCard No: XXXX XXXX XXXX 8765\n")
	pdf := write("axis.PDF", "%PDF-1.4")
	doc := write("notes.docx", "")

	t.Run("text file", func(t *testing.T) {
		st, err := processFile(context.Background(), ex, stubSource{err: errors.New("unused")}, txt)
		require.NoError(t, err)
		assert.Equal(t, "hdfc.txt", st.Source)
		assert.Equal(t, models.IssuerHDFC, st.Issuer)
		assert.Equal(t, "8765", st.Details[models.FieldLast4])
		assert.Equal(t, "HDFC Bank Card No: XXXX XXXX XXXX 8765", st.RawText)
	})

	t.Run("pdf file", func(t *testing.T) {
		src := stubSource{pages: []string{"AXIS Bank Card Type: Gold", "XXXX XXXX XXXX 2109"}}
		st, err := processFile(context.Background(), ex, src, pdf)
		require.NoError(t, err)
		assert.Equal(t, "Axis", st.Details[models.FieldIssuer])
		assert.Equal(t, "Gold", st.Details[models.FieldCardVariant])
		assert.Equal(t, "2109", st.Details[models.FieldLast4])
	})

	t.Run("unreadable pdf", func(t *testing.T) {
		_, err := processFile(context.Background(), ex, stubSource{err: errors.New("scanned")}, pdf)
		assert.ErrorContains(t, err, "PDF extraction failed")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := processFile(context.Background(), ex, stubSource{}, doc)
		assert.ErrorContains(t, err, `".docx"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := processFile(context.Background(), ex, stubSource{}, filepath.Join(dir, "gone.pdf"))
		assert.ErrorContains(t, err, "input file not found")
	})
}

func TestUsageText(t *testing.T) {
	assert.True(t, strings.HasPrefix(usageHeader, "card-statement-parser:"))
	assert.Contains(t, usageHeader, "-serve")
	assert.Contains(t, usageFooter, "OCR_FALLBACK")
}
