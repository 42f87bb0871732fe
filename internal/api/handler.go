package api

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
	"github.com/insightdelivered/card-statement-parser/internal/writer"
)

const Version = "1.0.0"

// pageBreak separates pages in pre-extracted text posted to /api/extract.
const pageBreak = "\n---PAGE_BREAK---\n"

// TextSource pulls page text out of a PDF on disk.
type TextSource interface {
	ExtractText(ctx context.Context, path string) ([]string, error)
}

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	File    string         `json:"file,omitempty"`
	Issuer  string         `json:"issuer,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	Fields  models.Details `json:"fields,omitempty"`
	Found   int            `json:"found"`
	CSV     string         `json:"csv,omitempty"`
	RawText string         `json:"rawText,omitempty"`
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	SamplesDir     string
	Extractor      *parser.Extractor
	Source         TextSource
	Metrics        *Metrics
	Logger         *slog.Logger
	Engine         string
	IncludeRawText bool
}

// Options tunes the fiber server.
type Options struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with middleware and routes.
func NewApp(h *Handler, opts Options) *fiber.App {
	if h.Logger == nil {
		h.Logger = slog.Default()
	}
	if h.Metrics == nil {
		h.Metrics = NewMetrics()
	}

	app := fiber.New(fiber.Config{
		AppName:               "card-statement-parser " + Version,
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          h.handleError,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(h.logRequest)

	app.Get("/", h.HandleIndex)
	app.Post("/parse", h.HandleParse)
	app.Get("/api/health", h.HandleHealth)
	app.Get("/api/samples", h.HandleSamples)
	app.Post("/api/extract", h.HandleExtract)
	app.Get("/metrics", adaptor.HTTPHandler(h.Metrics.Handler()))

	return app
}

// HandleIndex lists the sample statements.
func (h *Handler) HandleIndex(c *fiber.Ctx) error {
	samples, err := h.samples()
	if err != nil {
		return err
	}
	return render(c, "index.html", indexPage{Samples: samples})
}

// HandleParse extracts the fields of one sample statement and renders them.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("pdf_name"))
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "No PDF selected")
	}

	path, err := SamplePath(h.SamplesDir, name)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid PDF name")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fiber.NewError(fiber.StatusNotFound, "PDF not found: "+name)
		}
		return err
	}

	pages, err := h.extractPDF(c, path)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Could not read text from "+name)
	}

	res := h.extract(c, name, pages)
	return render(c, "result.html", resultPage{Name: name, Rows: res.Details.Rows()})
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  h.Engine,
	})
}

func (h *Handler) HandleSamples(c *fiber.Ctx) error {
	samples, err := h.samples()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"samples": samples})
}

// HandleExtract accepts an uploaded PDF in "file" or pre-extracted text in
// "text" and returns the extracted fields as JSON.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	var (
		name  string
		pages []string
	)

	if text := c.FormValue("text"); strings.TrimSpace(text) != "" {
		name = c.FormValue("name", "text")
		for _, page := range strings.Split(text, pageBreak) {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
	} else {
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'text'.")
		}
		if !isPDFName(fh.Filename) {
			return fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported.")
		}
		name = fh.Filename

		tmp, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return err
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		if err := c.SaveFile(fh, tmp.Name()); err != nil {
			return err
		}
		pages, err = h.extractPDF(c, tmp.Name())
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"PDF extraction failed. The file may be scanned or use fonts whose text cannot be decoded.")
		}
	}

	res := h.extract(c, name, pages)

	var csvBuf bytes.Buffer
	w := &writer.CSVWriter{IncludeHeader: true}
	if err := w.Write(&csvBuf, []models.Statement{{Source: name, Issuer: res.Issuer, Details: res.Details}}); err != nil {
		return err
	}

	resp := ExtractResponse{
		Success: true,
		File:    name,
		Issuer:  string(res.Issuer),
		Kind:    res.Kind.String(),
		Fields:  res.Details,
		Found:   res.Details.Found(),
		CSV:     csvBuf.String(),
	}
	if h.IncludeRawText {
		resp.RawText = res.Text
	}
	return c.JSON(resp)
}

// samples lists the sample PDFs; a missing samples directory is empty.
func (h *Handler) samples() ([]string, error) {
	samples, err := ListSamples(h.SamplesDir)
	if errors.Is(err, fs.ErrNotExist) {
		h.Logger.Warn("samples directory missing", "dir", h.SamplesDir)
		return []string{}, nil
	}
	return samples, err
}

func (h *Handler) extractPDF(c *fiber.Ctx, path string) ([]string, error) {
	start := time.Now()
	pages, err := h.Source.ExtractText(c.UserContext(), path)
	h.Metrics.ObservePDF(time.Since(start))
	if err != nil {
		h.Metrics.ObserveFailure("pdf")
		h.Logger.Warn("pdf text extraction failed", "request_id", requestID(c), "error", err)
		return nil, err
	}
	return pages, nil
}

func (h *Handler) extract(c *fiber.Ctx, name string, pages []string) parser.Result {
	res := h.Extractor.Parse(pages)
	h.Metrics.ObserveResult(res)
	h.Logger.Info("statement extracted",
		"request_id", requestID(c),
		"file", name,
		"issuer", res.Issuer,
		"rules", res.Kind,
		"found", res.Details.Found(),
	)
	return res
}

// handleError writes JSON errors for /api routes and plain text elsewhere.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, msg = fe.Code, fe.Message
	} else {
		h.Metrics.ObserveFailure("internal")
		h.Logger.Error("request failed", "request_id", requestID(c), "path", c.Path(), "error", err)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(ExtractResponse{Success: false, Error: msg})
	}
	return c.Status(code).SendString(msg)
}

func (h *Handler) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	// Run the error handler here so the logged status is the one sent.
	if err := c.Next(); err != nil {
		if err := c.App().ErrorHandler(c, err); err != nil {
			return err
		}
	}
	h.Logger.Debug("request",
		"request_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
