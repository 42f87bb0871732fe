package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// IssuerToken maps a name as it appears in statement text to an issuer.
type IssuerToken struct {
	Token  string
	Issuer models.Issuer
}

// DefaultIssuerCatalog returns the known issuer tokens in detection order.
// Tokens that contain another token are listed before it. "Amex" goes last:
// other issuers print it among payment options.
func DefaultIssuerCatalog() []IssuerToken {
	return []IssuerToken{
		{"American Express", models.IssuerAmex},
		{"Axis Bank", models.IssuerAxis},
		{"AXIS", models.IssuerAxis},
		{"ICICI", models.IssuerICICI},
		{"HDFC", models.IssuerHDFC},
		{"SBI", models.IssuerSBI},
		{"KOTAK", models.IssuerKotak},
		{"CANARA", models.IssuerCanara},
		{"YES BANK", models.IssuerYesBank},
		{"CITI", models.IssuerCiti},
		{"CHASE", models.IssuerChase},
		{"CAPITAL ONE", models.IssuerCapitalOne},
		{"DISCOVER", models.IssuerDiscover},
		{"Amex", models.IssuerAmex},
	}
}

// Detector finds the issuer named in statement text. A token matches
// anywhere in the text, ignoring case, including inside a longer word.
type Detector struct {
	catalog []IssuerToken
	matcher *ahocorasick.Matcher
}

// NewDetector builds a detector over catalog. Catalog order decides which
// issuer wins when several tokens occur in the same text.
func NewDetector(catalog []IssuerToken) (*Detector, error) {
	d := &Detector{catalog: slices.Clone(catalog)}

	lowered := make([]string, 0, len(catalog))
	for _, entry := range catalog {
		tok := strings.TrimSpace(entry.Token)
		if tok == "" {
			return nil, fmt.Errorf("issuer %q has an empty token", entry.Issuer)
		}
		if entry.Issuer == "" || entry.Issuer == models.IssuerUnknown {
			return nil, fmt.Errorf("token %q maps to no issuer", entry.Token)
		}
		lowered = append(lowered, strings.ToLower(tok))
	}
	d.matcher = ahocorasick.NewStringMatcher(lowered)

	return d, nil
}

// Detect returns the issuer of the earliest catalog token present in text,
// or models.IssuerUnknown.
func (d *Detector) Detect(text string) models.Issuer {
	if text == "" || len(d.catalog) == 0 {
		return models.IssuerUnknown
	}

	hits := d.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return models.IssuerUnknown
	}
	return d.catalog[slices.Min(hits)].Issuer
}
