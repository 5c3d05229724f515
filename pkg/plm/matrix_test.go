package plm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plmgraph/pkg/errors"
)

func TestMatrixString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "identity",
			input: "1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1",
			want:  "Identity",
		},
		{
			name:  "translated",
			input: "1 0 0 0 0 1 0 0 0 0 1 0 0 0 1 1",
			want:  "[1.000 0.000 0.000 0.000 0.000 1.000 0.000 0.000 0.000 0.000 1.000 0.000 0.000 0.000 1.000 1.000]",
		},
		{
			name:  "within tolerance",
			input: "1.0000000001 0 0 0 0 1 0 0 0 0 1 0 0 0 0 0.9999999999",
			want:  "Identity",
		},
		{
			name:  "outside tolerance",
			input: "1.00001 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1",
			want:  "[1.000 0.000 0.000 0.000 0.000 1.000 0.000 0.000 0.000 0.000 1.000 0.000 0.000 0.000 0.000 1.000]",
		},
		{
			name:  "multiline with rounding",
			input: "0.12345 -2 0 0\n0 1 0 0\n0 0 1 0\n10.5 20.25 -3.0005 1",
			want:  "[0.123 -2.000 0.000 0.000 0.000 1.000 0.000 0.000 0.000 0.000 1.000 0.000 10.500 20.250 -3.001 1.000]",
		},
		{
			name:  "extra tokens ignored",
			input: "1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1 99 100",
			want:  "Identity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMatrix(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestParseMatrixRowMajor(t *testing.T) {
	m, err := ParseMatrix("1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16")
	require.NoError(t, err)
	require.Len(t, m, 4)
	assert.Equal(t, []float64{1, 2, 3, 4}, m[0])
	assert.Equal(t, []float64{13, 14, 15, 16}, m[3])
}

func TestParseMatrixMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too few", "1 0 0 0 0 1 0 0 0 0 1 0 0 0 0"},
		{"not a number", "1 0 0 0 0 1 0 0 0 0 1 0 0 0 x 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMatrix(tt.input)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, errors.ErrCodeMalformedTransform), "got %v", err)
		})
	}
}

func TestEmptyMatrix(t *testing.T) {
	var m Matrix
	assert.True(t, m.IsEmpty())
	assert.False(t, m.IsIdentity())
	assert.Equal(t, "[]", m.String())
}
