package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t\r\f ", ""},
		{"newlines and tabs", "Payment\nDue\tDate:\r\n15/11/2025", "Payment Due Date: 15/11/2025"},
		{"trims ends", "  AXIS Bank  ", "AXIS Bank"},
		{"non-breaking space", "Total\u00a0Due:\u00a0₹100", "Total Due: ₹100"},
		{"already normal", "Card Type: Platinum", "Card Type: Platinum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
