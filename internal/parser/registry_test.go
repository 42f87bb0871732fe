package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func TestNewRegistry_Defaults(t *testing.T) {
	reg, err := NewRegistry(DefaultRuleSets(), FallbackRuleSet())
	require.NoError(t, err)

	assert.Equal(t, []models.Issuer{
		models.IssuerAmex,
		models.IssuerAxis,
		models.IssuerHDFC,
		models.IssuerICICI,
		models.IssuerSBI,
		models.IssuerChase,
	}, reg.Issuers())

	for _, issuer := range reg.Issuers() {
		set := reg.Lookup(issuer)
		assert.Equal(t, issuer, set.Issuer())
		assert.Equal(t, KindIssuer, set.Kind())
	}

	fb := reg.Lookup(models.IssuerKotak)
	assert.Equal(t, KindFallback, fb.Kind())
	assert.Equal(t, models.IssuerUnknown, fb.Issuer())
	assert.Same(t, fb, reg.Lookup(models.IssuerUnknown))
	assert.Zero(t, fb.RuleCount(models.FieldCardVariant), "generic rules never extract a card variant")
	assert.Zero(t, reg.Lookup(models.IssuerHDFC).RuleCount(models.FieldCardVariant))
}

func TestNewRegistry_Invalid(t *testing.T) {
	valid := RuleSetDef{
		Issuer: models.IssuerHDFC,
		Fields: map[models.Field][]Rule{models.FieldLast4: {{Pattern: maskedLast4}}},
	}

	tests := []struct {
		name     string
		defs     []RuleSetDef
		fallback RuleSetDef
	}{
		{
			name: "duplicate issuer",
			defs: []RuleSetDef{valid, valid},
		},
		{
			name: "missing issuer",
			defs: []RuleSetDef{{Fields: valid.Fields}},
		},
		{
			name: "unknown issuer",
			defs: []RuleSetDef{{Issuer: models.IssuerUnknown, Fields: valid.Fields}},
		},
		{
			name: "issuer field has no rules",
			defs: []RuleSetDef{{
				Issuer: models.IssuerHDFC,
				Fields: map[models.Field][]Rule{models.FieldIssuer: {{Pattern: `(HDFC)`}}},
			}},
		},
		{
			name: "invalid pattern",
			defs: []RuleSetDef{{
				Issuer: models.IssuerHDFC,
				Fields: map[models.Field][]Rule{models.FieldTotalDue: {{Pattern: `Total(`}}},
			}},
		},
		{
			name: "invalid fallback",
			defs: []RuleSetDef{valid},
			fallback: RuleSetDef{
				Fields: map[models.Field][]Rule{models.FieldDueDate: {{Pattern: `(\d+)`, Groups: []int{4}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.defs, tt.fallback)
			assert.Error(t, err)
			assert.Nil(t, reg)
		})
	}
}

func TestRuleSet_Resolve(t *testing.T) {
	reg, err := NewRegistry([]RuleSetDef{{
		Issuer: models.IssuerCiti,
		Fields: map[models.Field][]Rule{
			models.FieldTotalDue: {
				{Pattern: `Statement Balance[:\s]*` + amountToken},
				{Pattern: `Minimum Due[:\s]*` + amountToken},
			},
		},
	}}, RuleSetDef{})
	require.NoError(t, err)

	set := reg.Lookup(models.IssuerCiti)
	assert.Equal(t, 2, set.RuleCount(models.FieldTotalDue))

	tests := []struct {
		name string
		text string
		want string
	}{
		{"first rule wins", "Minimum Due: $35 Statement Balance: $1,200.00", "$1,200.00"},
		{"second rule used when first misses", "Minimum Due: $35", "$35"},
		{"neither", "Balance pending", models.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := set.Resolve(tt.text)
			require.Len(t, got, len(models.ResolvedFields))
			assert.Equal(t, tt.want, got[models.FieldTotalDue])
			assert.Equal(t, models.NotFound, got[models.FieldLast4])
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "issuer", KindIssuer.String())
	assert.Equal(t, "fallback", KindFallback.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
