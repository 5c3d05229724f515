package plm

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/plmgraph/pkg/errors"
)

// MatrixSize is the number of cells in a 4x4 transform.
const MatrixSize = 16

// identityTolerance is the absolute per-cell tolerance used by [Matrix.IsIdentity].
const identityTolerance = 1e-9

// Matrix is a row-major 4x4 transform. A nil Matrix is empty.
type Matrix [][]float64

// ParseMatrix parses whitespace-separated numbers into a 4x4 matrix, row-major.
// Only the first 16 tokens are used. Fewer than 16 tokens, or a token among
// them that is not a number, yields [errors.ErrCodeMalformedTransform].
func ParseMatrix(text string) (Matrix, error) {
	fields := strings.Fields(text)
	if len(fields) < MatrixSize {
		return nil, errors.New(errors.ErrCodeMalformedTransform,
			"transform has %d numbers, want %d", len(fields), MatrixSize)
	}

	m := make(Matrix, 4)
	for row := range m {
		m[row] = make([]float64, 4)
		for col := range m[row] {
			tok := fields[row*4+col]
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedTransform, err,
					"transform cell %d: %q is not a number", row*4+col, tok)
			}
			m[row][col] = v
		}
	}
	return m, nil
}

// IsEmpty reports whether the matrix has no cells.
func (m Matrix) IsEmpty() bool { return len(m) == 0 }

// IsIdentity reports whether every cell is within 1e-9 of the identity matrix.
// An empty matrix is not the identity.
func (m Matrix) IsIdentity() bool {
	if len(m) != 4 {
		return false
	}
	for i, row := range m {
		if len(row) != 4 {
			return false
		}
		for j, v := range row {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(v-want) > identityTolerance {
				return false
			}
		}
	}
	return true
}

// String formats the matrix for display: "Identity" for the identity matrix,
// "[]" for an empty matrix, otherwise all cells row-major with three decimals
// inside brackets.
func (m Matrix) String() string {
	if m.IsEmpty() {
		return "[]"
	}
	if m.IsIdentity() {
		return "Identity"
	}

	cells := make([]string, 0, MatrixSize)
	for _, row := range m {
		for _, v := range row {
			cells = append(cells, strconv.FormatFloat(v, 'f', 3, 64))
		}
	}
	return "[" + strings.Join(cells, " ") + "]"
}
