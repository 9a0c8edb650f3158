// Package fastaload is the minimal, CLI-only FASTA reader that adapts a
// file into pairsearch.Multiseq. It is intentionally tiny: full FASTA/FASTQ
// parsing is explicitly out of scope for the core library (spec.md §1), so
// this is the one FASTA-adjacent piece that exists purely to make the CLI
// runnable end to end.
package fastaload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/alnkit/seqalign/align/scorematrix"
)

// Bank is an in-memory pairsearch.Multiseq backed by one []byte per
// sequence, encoded through the caller-supplied matrix alphabet.
type Bank struct {
	headers []string
	seqs    [][]byte
	maxLen  int
}

// Load reads a FASTA file, encoding every record through matrix's alphabet.
// Header lines ('>') start a new record; ShortHeader stores the text up to
// the first whitespace, matching the original's short-header convention. A
// ".gz"-suffixed path is transparently decompressed.
func Load(path string, matrix scorematrix.ScoreMatrix) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fastaload: opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("fastaload: opening gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return loadFrom(r, matrix)
}

func loadFrom(r io.Reader, matrix scorematrix.ScoreMatrix) (*Bank, error) {
	bank := &Bank{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<30)

	var curHeader string
	var curSeq strings.Builder
	flush := func() error {
		if curHeader == "" && curSeq.Len() == 0 {
			return nil
		}
		encoded, err := matrix.Encode([]byte(curSeq.String()))
		if err != nil {
			return fmt.Errorf("fastaload: record %q: %w", curHeader, err)
		}
		bank.headers = append(bank.headers, curHeader)
		bank.seqs = append(bank.seqs, encoded)
		if len(encoded) > bank.maxLen {
			bank.maxLen = len(encoded)
		}
		curSeq.Reset()
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			curHeader = shortHeader(line[1:])
			continue
		}
		curSeq.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fastaload: reading: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(bank.seqs) == 0 {
		return nil, fmt.Errorf("fastaload: no records found")
	}
	return bank, nil
}

func shortHeader(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

func (b *Bank) SequenceCount() int      { return len(b.seqs) }
func (b *Bank) SequenceLength(i int) int { return len(b.seqs[i]) }
func (b *Bank) SequencePtr(i int) []byte { return b.seqs[i] }
func (b *Bank) MaxSequenceLength() int  { return b.maxLen }
func (b *Bank) ShortHeader(i int) string { return b.headers[i] }

// HeaderIndex builds the header->index lookup pairsearch.LoadPairRestriction
// needs.
func (b *Bank) HeaderIndex() map[string]uint32 {
	idx := make(map[string]uint32, len(b.headers))
	for i, h := range b.headers {
		idx[h] = uint32(i)
	}
	return idx
}
