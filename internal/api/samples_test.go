package api

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplePath(t *testing.T) {
	dir := filepath.Join("srv", "samples")

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"axis.pdf", false},
		{"October Statement.PDF", false},
		{"", true},
		{".pdf", true},
		{".hidden.pdf", true},
		{"../axis.pdf", true},
		{"sub/axis.pdf", true},
		{`sub\axis.pdf`, true},
		{"axis.txt", true},
		{"axis", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SamplePath(dir, tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSampleName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.name), got)
		})
	}
}

func TestListSamples_MissingDir(t *testing.T) {
	_, err := ListSamples(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
