package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/insightdelivered/card-statement-parser/internal/api"
	"github.com/insightdelivered/card-statement-parser/internal/config"
	"github.com/insightdelivered/card-statement-parser/internal/extractor"
	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
	"github.com/insightdelivered/card-statement-parser/internal/writer"
)

const usageHeader = `card-statement-parser: credit card statement field extractor

Extracts the issuer, card variant, last four card digits, billing period,
payment due date and total due from credit card statement PDFs.

Usage:
  card-statement-parser [flags] <statement.pdf|statement.txt> ...
  card-statement-parser -serve [-addr :5000] [-samples ./samples]

Flags:
`

const usageFooter = `
Examples:
  # Print the fields of one statement
  card-statement-parser axis_october.pdf

  # Collect several statements into one CSV
  card-statement-parser -output cards.csv hdfc.pdf sbi.pdf kotak.pdf

  # Parse text that was already extracted
  card-statement-parser -json statement.txt

Supported issuers:
  American Express, Axis, HDFC, ICICI, SBI and Chase have dedicated rules.
  Kotak, Canara, Yes Bank, Citi, Capital One, Discover and unknown
  issuers use the generic rules.

Environment:
  SERVER_ADDR, SAMPLES_DIR, MAX_UPLOAD_MB, READ_TIMEOUT, WRITE_TIMEOUT,
  INCLUDE_RAW_TEXT, PDFTOTEXT_FALLBACK, OCR_FALLBACK, LOG_LEVEL, LOG_FORMAT
  (read from .env when present)
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	// CLI flags
	outputFlag := flag.String("output", "", "Write all results to this CSV file")
	headerFlag := flag.Bool("header", true, "Include the column header row in CSV output")
	jsonFlag := flag.Bool("json", false, "Print results as JSON instead of text")
	serveFlag := flag.Bool("serve", false, "Start the web front end instead of parsing files")
	addrFlag := flag.String("addr", cfg.Server.Addr, "Listen address for -serve")
	samplesFlag := flag.String("samples", cfg.Server.SamplesDir, "Directory of sample PDFs for -serve")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageHeader)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, usageFooter)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("card-statement-parser v%s\n", api.Version)
		os.Exit(0)
	}

	ex, err := parser.New()
	if err != nil {
		fatalf("Rule tables are invalid: %v\n", err)
	}
	reader := extractor.Reader{Pdftotext: cfg.Extraction.Pdftotext, OCR: cfg.Extraction.OCR}

	if *serveFlag {
		cfg.Server.Addr = *addrFlag
		cfg.Server.SamplesDir = *samplesFlag
		if err := serve(cfg, ex, reader, logger); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		statements []models.Statement
		failed     bool
	)
	for _, inputPath := range flag.Args() {
		st, err := processFile(ctx, ex, reader, inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			failed = true
			continue
		}
		statements = append(statements, st)
	}

	if *jsonFlag {
		if err := printJSON(statements); err != nil {
			fatalf("JSON output failed: %v\n", err)
		}
	} else {
		for _, st := range statements {
			printStatement(st)
		}
	}

	if *outputFlag != "" && len(statements) > 0 {
		w := &writer.CSVWriter{IncludeHeader: *headerFlag}
		if err := w.WriteToFile(*outputFlag, statements); err != nil {
			fatalf("CSV write failed: %v\n", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d statement(s) to %s\n", len(statements), *outputFlag)
	}

	if failed {
		os.Exit(1)
	}
}

// processFile reads one statement and extracts its fields. Text files are
// taken as already extracted statement text.
func processFile(ctx context.Context, ex *parser.Extractor, src api.TextSource, inputPath string) (models.Statement, error) {
	if _, err := os.Stat(inputPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Statement{}, fmt.Errorf("input file not found: %s", inputPath)
		}
		return models.Statement{}, err
	}

	var pages []string
	switch ext := strings.ToLower(filepath.Ext(inputPath)); ext {
	case ".txt":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return models.Statement{}, fmt.Errorf("read text: %w", err)
		}
		pages = []string{string(data)}
	case ".pdf":
		var err error
		pages, err = src.ExtractText(ctx, inputPath)
		if err != nil {
			return models.Statement{}, fmt.Errorf("PDF extraction failed: %w", err)
		}
	default:
		return models.Statement{}, fmt.Errorf("expected .pdf or .txt file, got %q", ext)
	}

	res := ex.Parse(pages)
	slog.Debug("statement extracted", "file", inputPath, "issuer", res.Issuer, "rules", res.Kind, "found", res.Details.Found())

	return models.Statement{
		Source:  filepath.Base(inputPath),
		Issuer:  res.Issuer,
		Details: res.Details,
		RawText: res.Text,
	}, nil
}

func printStatement(st models.Statement) {
	fmt.Printf("%s\n", st.Source)
	for _, row := range st.Details.Rows() {
		fmt.Printf("  %-20s %s\n", row.Field+":", row.Value)
	}
	if st.Details.Found() == 0 {
		fmt.Println("  Warning: no fields found. The statement layout may not match any known issuer.")
	}
}

func printJSON(statements []models.Statement) error {
	type output struct {
		File   string         `json:"file"`
		Issuer string         `json:"issuer"`
		Fields models.Details `json:"fields"`
	}
	out := make([]output, 0, len(statements))
	for _, st := range statements {
		out = append(out, output{File: st.Source, Issuer: string(st.Issuer), Fields: st.Details})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// serve runs the web front end until SIGINT or SIGTERM.
func serve(cfg *config.Config, ex *parser.Extractor, reader extractor.Reader, logger *slog.Logger) error {
	app := api.NewApp(&api.Handler{
		SamplesDir:     cfg.Server.SamplesDir,
		Extractor:      ex,
		Source:         reader,
		Metrics:        api.NewMetrics(),
		Logger:         logger,
		Engine:         reader.Engine(),
		IncludeRawText: cfg.Server.IncludeRawText,
	}, api.Options{
		BodyLimit:    cfg.Server.MaxUploadBytes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "samples", cfg.Server.SamplesDir, "engine", reader.Engine())
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
