// Package scorematrix provides the built-in nucleotide and protein
// substitution matrices, ported from the unit_score_nuc*.hpp tables and an
// embedded BLOSUM62 literal.
package scorematrix

import (
	"fmt"

	"github.com/alnkit/seqalign/align/banded"
)

// nucAlphabet maps A,C,G,T,N to codes 0..4, matching the original
// Unit_score_nuc family's characters string.
const nucAlphabet = "ACGTN"

var unitScoreNuc = [5][5]int8{
	{2, -1, -1, -1, -1},
	{-1, 2, -1, -1, -1},
	{-1, -1, 2, -1, -1},
	{-1, -1, -1, 2, -1},
	{-1, -1, -1, -1, -1},
}

var unitScoreNuc22 = [5][5]int8{
	{2, -2, -2, -2, -2},
	{-2, 2, -2, -2, -2},
	{-2, -2, 2, -2, -2},
	{-2, -2, -2, 2, -2},
	{-2, -2, -2, -2, -2},
}

var unitScoreNucUpper = unitScoreNuc

// unitScoreNucLower is a lowercase-variant nucleotide matrix over the same
// alphabet: identical bases score +1, all other pairs (and the wildcard
// row/column) score -1.
var unitScoreNucLower = [5][5]int8{
	{1, -1, -1, -1, -1},
	{-1, 1, -1, -1, -1},
	{-1, -1, 1, -1, -1},
	{-1, -1, -1, 1, -1},
	{-1, -1, -1, -1, -1},
}

const proteinAlphabet = "ARNDCQEGHILKMFPSTWYVBZX*"

// blosum62 is the standard BLOSUM62 substitution matrix, rows/columns in
// proteinAlphabet order.
var blosum62 = [24][24]int8{
	{4, -1, -2, -2, 0, -1, -1, 0, -2, -1, -1, -1, -1, -2, -1, 1, 0, -3, -2, 0, -2, -1, 0, -4},
	{-1, 5, 0, -2, -3, 1, 0, -2, 0, -3, -2, 2, -1, -3, -2, -1, -1, -3, -2, -3, -1, 0, -1, -4},
	{-2, 0, 6, 1, -3, 0, 0, 0, 1, -3, -3, 0, -2, -3, -2, 1, 0, -4, -2, -3, 3, 0, -1, -4},
	{-2, -2, 1, 6, -3, 0, 2, -1, -1, -3, -4, -1, -3, -3, -1, 0, -1, -4, -3, -3, 4, 1, -1, -4},
	{0, -3, -3, -3, 9, -3, -4, -3, -3, -1, -1, -3, -1, -2, -3, -1, -1, -2, -2, -1, -3, -3, -2, -4},
	{-1, 1, 0, 0, -3, 5, 2, -2, 0, -3, -2, 1, 0, -3, -1, 0, -1, -2, -1, -2, 0, 3, -1, -4},
	{-1, 0, 0, 2, -4, 2, 5, -2, 0, -3, -3, 1, -2, -3, -1, 0, -1, -3, -2, -2, 1, 4, -1, -4},
	{0, -2, 0, -1, -3, -2, -2, 6, -2, -4, -4, -2, -3, -3, -2, 0, -2, -2, -3, -3, -1, -2, -1, -4},
	{-2, 0, 1, -1, -3, 0, 0, -2, 8, -3, -3, -1, -2, -1, -2, -1, -2, -2, 2, -3, 0, 0, -1, -4},
	{-1, -3, -3, -3, -1, -3, -3, -4, -3, 4, 2, -3, 1, 0, -3, -2, -1, -3, -1, 3, -3, -3, -1, -4},
	{-1, -2, -3, -4, -1, -2, -3, -4, -3, 2, 4, -2, 2, 0, -3, -2, -1, -2, -1, 1, -4, -3, -1, -4},
	{-1, 2, 0, -1, -3, 1, 1, -2, -1, -3, -2, 5, -1, -3, -1, 0, -1, -3, -2, -2, 0, 1, -1, -4},
	{-1, -1, -2, -3, -1, 0, -2, -3, -2, 1, 2, -1, 5, 0, -2, -1, -1, -1, -1, 1, -3, -1, -1, -4},
	{-2, -3, -3, -3, -2, -3, -3, -3, -1, 0, 0, -3, 0, 6, -4, -2, -2, 1, 3, -1, -3, -3, -1, -4},
	{-1, -2, -2, -1, -3, -1, -1, -2, -2, -3, -3, -1, -2, -4, 7, -1, -1, -4, -3, -2, -2, -1, -2, -4},
	{1, -1, 1, 0, -1, 0, 0, 0, -1, -2, -2, 0, -1, -2, -1, 4, 1, -3, -2, -2, 0, 0, 0, -4},
	{0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -1, -1, -1, -2, -1, 1, 5, -2, -2, 0, -1, -1, 0, -4},
	{-3, -3, -4, -4, -2, -2, -3, -2, -2, -3, -2, -3, -1, 1, -4, -3, -2, 11, 2, -3, -4, -3, -2, -4},
	{-2, -2, -2, -3, -2, -1, -2, -3, 2, -1, -1, -2, -1, 3, -3, -2, -2, 2, 7, -1, -3, -2, -1, -4},
	{0, -3, -3, -3, -1, -2, -2, -3, -3, 3, 1, -2, 1, -1, -2, -2, 0, -3, -1, 4, -3, -2, -1, -4},
	{-2, -1, 3, 4, -3, 0, 1, -1, 0, -3, -4, 0, -3, -3, -2, 0, -1, -4, -3, -3, 4, 1, -1, -4},
	{-1, 0, 0, 1, -3, 3, 4, -2, 0, -3, -3, 1, -1, -3, -1, 0, -1, -3, -2, -2, 1, 4, -1, -4},
	{0, -1, -1, -1, -2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -2, 0, 0, -2, -1, -1, -1, -1, -1, -4},
	{-4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, 1},
}

// ScoreMatrix pairs an alphabet string with its substitution table and
// smallest entry. It mirrors align/banded.ScoreMatrix's Rows/Smallest shape
// so a Lookup result can feed straight into banded.Aligner or ssw.Profile.
type ScoreMatrix struct {
	Alphabet  string
	Alphasize int
	Smallest  int8
	Rows      [][]int8
}

func fromArray(alphabet string, rows [][]int8) ScoreMatrix {
	smallest := int8(0)
	for _, row := range rows {
		for _, v := range row {
			if v < smallest {
				smallest = v
			}
		}
	}
	return ScoreMatrix{Alphabet: alphabet, Alphasize: len(alphabet), Smallest: smallest, Rows: rows}
}

func toRows(n int, table func(i, j int) int8) [][]int8 {
	rows := make([][]int8, n)
	for i := 0; i < n; i++ {
		row := make([]int8, n)
		for j := 0; j < n; j++ {
			row[j] = table(i, j)
		}
		rows[i] = row
	}
	return rows
}

// Lookup resolves a named built-in matrix. dnaAlphabet selects between the
// nucleotide and protein namespaces; the empty name selects the default of
// either ("unit" or "blosum62"). An unknown name fails with an error that
// lists the valid names of the selected namespace.
func Lookup(name string, dnaAlphabet bool) (ScoreMatrix, error) {
	if dnaAlphabet {
		switch name {
		case "unit", "":
			return fromArray(nucAlphabet, toRows(5, func(i, j int) int8 { return unitScoreNuc[i][j] })), nil
		case "unit22":
			return fromArray(nucAlphabet, toRows(5, func(i, j int) int8 { return unitScoreNuc22[i][j] })), nil
		case "unitupper":
			return fromArray(nucAlphabet, toRows(5, func(i, j int) int8 { return unitScoreNucUpper[i][j] })), nil
		case "unitlower":
			return fromArray(nucAlphabet, toRows(5, func(i, j int) int8 { return unitScoreNucLower[i][j] })), nil
		}
		return ScoreMatrix{}, fmt.Errorf("scorematrix: unknown nucleotide matrix %q (valid: unit, unit22, unitupper, unitlower)", name)
	}
	switch name {
	case "blosum62", "":
		return fromArray(proteinAlphabet, toRows(24, func(i, j int) int8 { return blosum62[i][j] })), nil
	}
	return ScoreMatrix{}, fmt.Errorf("scorematrix: unknown protein matrix %q (valid: blosum62)", name)
}

// Banded converts m into the plain Rows/Smallest shape align/banded and
// align/ssw consume directly.
func (m ScoreMatrix) Banded() banded.ScoreMatrix {
	return banded.ScoreMatrix{Alphasize: m.Alphasize, Smallest: m.Smallest, Rows: m.Rows}
}

// Encode maps a byte sequence of alphabet characters to matrix codes,
// reporting the first unrecognized character's index.
func (m ScoreMatrix) Encode(seq []byte) ([]byte, error) {
	out := make([]byte, len(seq))
	for i, c := range seq {
		idx := -1
		for a := 0; a < len(m.Alphabet); a++ {
			if m.Alphabet[a] == c {
				idx = a
				break
			}
		}
		if idx == -1 {
			return nil, fmt.Errorf("scorematrix: character %q at position %d not in alphabet %q", c, i, m.Alphabet)
		}
		out[i] = byte(idx)
	}
	return out, nil
}
