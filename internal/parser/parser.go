package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Extractor turns statement text into the six statement fields. It holds
// only read-only tables and is safe for concurrent use.
type Extractor struct {
	detector *Detector
	registry *Registry
}

// Result is an extraction together with how it was obtained.
type Result struct {
	Issuer  models.Issuer
	Kind    Kind
	Text    string
	Details models.Details
}

// New returns an Extractor over the built-in issuer catalog and rule sets.
// An error means the built-in tables are broken and nothing should be
// served.
func New() (*Extractor, error) {
	d, err := NewDetector(DefaultIssuerCatalog())
	if err != nil {
		return nil, fmt.Errorf("issuer catalog: %w", err)
	}
	r, err := NewRegistry(DefaultRuleSets(), FallbackRuleSet())
	if err != nil {
		return nil, fmt.Errorf("rule registry: %w", err)
	}
	return NewExtractor(d, r), nil
}

// NewExtractor combines a detector and a registry.
func NewExtractor(d *Detector, r *Registry) *Extractor {
	return &Extractor{detector: d, registry: r}
}

// Extract returns the fields found in raw statement text. Every field is
// present; anything not found is models.NotFound.
func (e *Extractor) Extract(raw string) models.Details {
	return e.ExtractWithMeta(raw).Details
}

// ExtractWithMeta is Extract plus the detected issuer, the kind of rule set
// used and the normalized text the rules ran on.
func (e *Extractor) ExtractWithMeta(raw string) Result {
	text := Normalize(raw)
	issuer := e.detector.Detect(text)
	set := e.registry.Lookup(issuer)

	return Result{
		Issuer:  issuer,
		Kind:    set.Kind(),
		Text:    text,
		Details: shape(issuer, set.Resolve(text)),
	}
}

// Parse extracts from the text of each page of one document.
func (e *Extractor) Parse(pages []string) Result {
	return e.ExtractWithMeta(strings.Join(pages, "\n"))
}

// Detect returns the issuer named in raw text.
func (e *Extractor) Detect(raw string) models.Issuer {
	return e.detector.Detect(Normalize(raw))
}

// shape attaches the issuer display name and fills any missing field.
func shape(issuer models.Issuer, resolved map[models.Field]string) models.Details {
	d := models.NewDetails()
	for _, f := range models.ResolvedFields {
		if v := resolved[f]; v != "" {
			d[f] = v
		}
	}
	if name := issuer.DisplayName(); name != "" {
		d[models.FieldIssuer] = name
	}
	return d
}
