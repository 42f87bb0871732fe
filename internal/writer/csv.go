package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Record is one CSV row: the source file and its six extracted fields.
type Record struct {
	File          string `csv:"File"`
	Issuer        string `csv:"Bank / Issuer"`
	CardVariant   string `csv:"Card Variant"`
	Last4         string `csv:"Card Last 4 Digits"`
	BillingPeriod string `csv:"Billing Period"`
	DueDate       string `csv:"Payment Due Date"`
	TotalDue      string `csv:"Total Due"`
}

// NewRecord flattens a statement into a row.
func NewRecord(s models.Statement) Record {
	d := s.Details
	return Record{
		File:          s.Source,
		Issuer:        d.Get(models.FieldIssuer),
		CardVariant:   d.Get(models.FieldCardVariant),
		Last4:         d.Get(models.FieldLast4),
		BillingPeriod: d.Get(models.FieldBillingPeriod),
		DueDate:       d.Get(models.FieldDueDate),
		TotalDue:      d.Get(models.FieldTotalDue),
	}
}

// CSVWriter writes extraction results to CSV, one row per statement.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes statements to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, statements []models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if err := w.Write(f, statements); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes statements in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, statements []models.Statement) error {
	records := make([]Record, 0, len(statements))
	for _, s := range statements {
		records = append(records, NewRecord(s))
	}

	var err error
	if w.IncludeHeader {
		err = gocsv.Marshal(records, out)
	} else {
		err = gocsv.MarshalWithoutHeaders(records, out)
	}
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
