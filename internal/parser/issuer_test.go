package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func TestDetector_Detect(t *testing.T) {
	d, err := NewDetector(DefaultIssuerCatalog())
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want models.Issuer
	}{
		{"empty text", "", models.IssuerUnknown},
		{"no token", "Monthly account summary", models.IssuerUnknown},
		{"axis bank", "AXIS Bank Credit Card", models.IssuerAxis},
		{"lower case", "statement from axis bank", models.IssuerAxis},
		{"american express", "American Express Platinum", models.IssuerAmex},
		{"amex shorthand", "Your AMEX statement", models.IssuerAmex},
		{"earlier catalog entry wins", "Payments via HDFC and ICICI and SBI", models.IssuerICICI},
		{"american express wins over chase", "Paid at CHASE with American Express", models.IssuerAmex},
		{"token glued to a preceding word", "StatementHDFC Card No", models.IssuerHDFC},
		{"token inside a word", "Purchases this month", models.IssuerChase},
		{"token as a word prefix", "Citibank N.A.", models.IssuerCiti},
		{"amex offered on an axis statement", "AXIS Bank statement. Pay by Amex or UPI", models.IssuerAxis},
		{"amex after chase", "CHASE card, Amex accepted", models.IssuerChase},
		{"multi-word token", "YES BANK Ltd", models.IssuerYesBank},
		{"capital one", "Capital One Quicksilver", models.IssuerCapitalOne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestNewDetector_InvalidCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog []IssuerToken
	}{
		{"empty token", []IssuerToken{{Token: "  ", Issuer: models.IssuerHDFC}}},
		{"no issuer", []IssuerToken{{Token: "HDFC"}}},
		{"unknown issuer", []IssuerToken{{Token: "HDFC", Issuer: models.IssuerUnknown}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDetector(tt.catalog)
			assert.Error(t, err)
		})
	}
}

func TestDetector_EmptyCatalog(t *testing.T) {
	d, err := NewDetector(nil)
	require.NoError(t, err)
	assert.Equal(t, models.IssuerUnknown, d.Detect("HDFC Bank"))
}
