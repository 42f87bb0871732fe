package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NotFound is the value of any field that could not be extracted.
const NotFound = "Not Found"

// Field names a single extracted statement field. The string value is the
// display label used in JSON, HTML and CSV output.
type Field string

const (
	FieldIssuer        Field = "Bank / Issuer"
	FieldCardVariant   Field = "Card Variant"
	FieldLast4         Field = "Card Last 4 Digits"
	FieldBillingPeriod Field = "Billing Period"
	FieldDueDate       Field = "Payment Due Date"
	FieldTotalDue      Field = "Total Due"
)

// Fields is the canonical, ordered field set of every extraction result.
var Fields = []Field{
	FieldIssuer,
	FieldCardVariant,
	FieldLast4,
	FieldBillingPeriod,
	FieldDueDate,
	FieldTotalDue,
}

// ResolvedFields are the fields filled in by pattern rules. The issuer field
// is attached separately from the detected issuer.
var ResolvedFields = Fields[1:]

// Issuer identifies a card issuer from the known catalog. The value is the
// canonical catalog token.
type Issuer string

const (
	IssuerUnknown    Issuer = "Unknown"
	IssuerAmex       Issuer = "American Express"
	IssuerAxis       Issuer = "AXIS"
	IssuerICICI      Issuer = "ICICI"
	IssuerHDFC       Issuer = "HDFC"
	IssuerSBI        Issuer = "SBI"
	IssuerKotak      Issuer = "KOTAK"
	IssuerCanara     Issuer = "CANARA"
	IssuerYesBank    Issuer = "YES BANK"
	IssuerCiti       Issuer = "CITI"
	IssuerChase      Issuer = "CHASE"
	IssuerCapitalOne Issuer = "CAPITAL ONE"
	IssuerDiscover   Issuer = "DISCOVER"
)

// DisplayName returns the title-cased issuer name, e.g. "AXIS" -> "Axis".
// Unknown issuers have no display name.
func (i Issuer) DisplayName() string {
	if i == IssuerUnknown || i == "" {
		return ""
	}
	// Casers are stateful, so one per call.
	return cases.Title(language.English).String(strings.ToLower(string(i)))
}

// Details is the result of one extraction: every field in Fields mapped to
// an extracted value or NotFound.
type Details map[Field]string

// NewDetails returns a Details with every field set to NotFound.
func NewDetails() Details {
	d := make(Details, len(Fields))
	for _, f := range Fields {
		d[f] = NotFound
	}
	return d
}

// Get returns the value for f, or NotFound when the field is absent or empty.
func (d Details) Get(f Field) string {
	if v, ok := d[f]; ok && v != "" {
		return v
	}
	return NotFound
}

// FieldValue is a single row of an ordered Details view.
type FieldValue struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Rows returns the fields in canonical order.
func (d Details) Rows() []FieldValue {
	rows := make([]FieldValue, 0, len(Fields))
	for _, f := range Fields {
		rows = append(rows, FieldValue{Field: f, Value: d.Get(f)})
	}
	return rows
}

// Found reports how many fields hold an extracted value.
func (d Details) Found() int {
	n := 0
	for _, f := range Fields {
		if d.Get(f) != NotFound {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the six fields as an object in canonical order.
func (d Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(f))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.Get(f))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Statement pairs an extraction result with its source document.
type Statement struct {
	Source  string
	Issuer  Issuer
	Details Details
	RawText string
}
