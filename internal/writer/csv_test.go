package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func axisStatement() models.Statement {
	d := models.NewDetails()
	d[models.FieldIssuer] = "Axis"
	d[models.FieldCardVariant] = "Platinum"
	d[models.FieldLast4] = "2109"
	d[models.FieldBillingPeriod] = "01/10/2025 to 31/10/2025"
	d[models.FieldDueDate] = "15/11/2025"
	d[models.FieldTotalDue] = "₹7,890.25"
	return models.Statement{Source: "axis.pdf", Issuer: models.IssuerAxis, Details: d}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, []models.Statement{
		axisStatement(),
		{Source: "blank.txt", Details: models.NewDetails()},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "File,Bank / Issuer,Card Variant,Card Last 4 Digits,Billing Period,Payment Due Date,Total Due", lines[0])
	assert.Equal(t, `axis.pdf,Axis,Platinum,2109,01/10/2025 to 31/10/2025,15/11/2025,"₹7,890.25"`, lines[1])
	assert.Equal(t, "blank.txt,Not Found,Not Found,Not Found,Not Found,Not Found,Not Found", lines[2])
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	require.NoError(t, w.Write(&buf, []models.Statement{axisStatement()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "axis.pdf,Axis,"))
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.WriteToFile(path, []models.Statement{axisStatement()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2109")
}

func TestCSVWriter_WriteToFile_BadPath(t *testing.T) {
	w := &CSVWriter{}
	err := w.WriteToFile(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	assert.Error(t, err)
}

func TestNewRecord_MissingFields(t *testing.T) {
	rec := NewRecord(models.Statement{Source: "x.pdf"})
	assert.Equal(t, "x.pdf", rec.File)
	assert.Equal(t, models.NotFound, rec.Issuer)
	assert.Equal(t, models.NotFound, rec.TotalDue)
}
