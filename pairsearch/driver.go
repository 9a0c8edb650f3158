package pairsearch

import (
	"context"
	"fmt"

	"github.com/grailbio/base/traverse"

	"github.com/alnkit/seqalign/align/banded"
	"github.com/alnkit/seqalign/align/blaststat"
	"github.com/alnkit/seqalign/align/ssw"
	"github.com/alnkit/seqalign/eoplist"
)

// debugAssertions mirrors the original's #ifndef NDEBUG convention: a
// compile-time-constant escape hatch for expensive consistency checks
// that should never run in a production build.
const debugAssertions = false

// Config mirrors the CLI surface (cmd/seqalign-search) minus flag
// parsing.
type Config struct {
	Cut            int
	SeqnumDivisor  int
	Threads        int
	MinScore       uint32
	UseBitScore    bool
	TopK           int
	StopAfterFirst bool
	ReverseStrand  bool
	ShowHeaders    bool
	Display        DisplaySpec
	OptMemory      bool
	PolishScores   bool
	CoordinateMode int
	// Alphabet decodes the matrix codes SequencePtr returns (index i is
	// the character code i stands for), used to render s-substr/q-substr
	// as readable residues rather than raw codes.
	Alphabet string
}

// Run tiles ref x query, fans the tiles out across cfg.Threads worker
// goroutines (each owning its own ssw.Resources and, lazily, its own
// banded.Aligner), and delivers hits either to sink (streaming mode) or
// into a merged best-K heap. The merged hits are returned only when sink
// is nil; with a non-nil sink Run returns nil hits.
func Run(
	ctx context.Context,
	cfg Config,
	ref, query Multiseq,
	matrix banded.ScoreMatrix,
	gapOpen, gapExt int8,
	stats *blaststat.Stats,
	restriction *PairRestriction,
	sink Sink,
) ([]Hit, error) {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if cfg.Cut <= 0 {
		cfg.Cut = 1000
	}

	sameMultiseq := ref == query
	tiles := Tiles(cfg.Cut, ref.SequenceCount(), query.SequenceCount(), sameMultiseq)

	perThreadHeaps := make([]*TopKHeap, cfg.Threads)
	useHeap := sink == nil
	if useHeap {
		for t := range perThreadHeaps {
			perThreadHeaps[t] = NewTopKHeap(cfg.TopK)
		}
	}

	err := traverse.Each(cfg.Threads, func(threadID int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := ssw.NewResources(ref.MaxSequenceLength())
		var aligner *banded.Aligner
		if cfg.PolishScores {
			aligner = banded.NewAligner(cfg.OptMemory, true)
		}

		var writer interface {
			writeLine(string) error
		}
		if sink != nil {
			w, err := sink.WriterFor(threadID)
			if err != nil {
				return err
			}
			writer = lineWriter{w}
			if err := writer.writeLine(FieldsHeader(cfg)); err != nil {
				return err
			}
		}

		startIdx := (threadID * len(tiles)) / cfg.Threads
		endIdx := ((threadID + 1) * len(tiles)) / cfg.Threads

		for _, tile := range tiles[startIdx:endIdx] {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := processTile(ctx, cfg, tile, ref, query, matrix, gapOpen, gapExt, stats, restriction, res, aligner, writer, perThreadHeaps[threadID]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !useHeap {
		return nil, nil
	}
	return mergeTopK(perThreadHeaps, cfg.TopK), nil
}

type lineWriter struct {
	w interface{ Write([]byte) (int, error) }
}

func (l lineWriter) writeLine(s string) error {
	_, err := l.w.Write([]byte(s + "\n"))
	return err
}

func processTile(
	ctx context.Context,
	cfg Config,
	tile Tile,
	ref, query Multiseq,
	matrix banded.ScoreMatrix,
	gapOpen, gapExt int8,
	stats *blaststat.Stats,
	restriction *PairRestriction,
	res *ssw.Resources,
	aligner *banded.Aligner,
	writer interface{ writeLine(string) error },
	topK *TopKHeap,
) error {
	for refOffset := 0; refOffset < tile.RefLen; refOffset++ {
		refID := uint32(tile.RefStart + refOffset)
		refSeq := ref.SequencePtr(int(refID))
		profile := ssw.BuildProfile(matrix, refSeq, false)

		queryLo := 0
		if tile.Triangle {
			queryLo = refOffset
		}
		for queryOffset := queryLo; queryOffset < tile.QueryLen; queryOffset++ {
			queryID := uint32(tile.QueryStart + queryOffset)
			if tile.Triangle && queryID == refID {
				continue
			}
			if !restriction.Allowed(refID, queryID) {
				continue
			}

			querySeq := query.SequencePtr(int(queryID))
			result, err := ssw.Align(profile, res, querySeq, uint8(gapOpen), uint8(gapExt), false)
			if err != nil {
				return err
			}
			if result.VSubstringLength > 0 && cfg.ReverseStrand {
				rcResult, err := ssw.AlignReverseComplement(profile, res, querySeq, uint8(gapOpen), uint8(gapExt), false)
				if err != nil {
					return err
				}
				if rcResult.Greater(result) {
					result = rcResult
				}
			}
			if result.VSubstringLength == 0 {
				continue
			}

			score := result.RawScore
			if cfg.UseBitScore && stats != nil {
				score = stats.RawToBit(result.RawScore)
			}
			if score < cfg.MinScore {
				continue
			}

			hit := Hit{Result: result, RefID: refID, QueryID: queryID}

			if cfg.PolishScores && aligner != nil {
				if err := polish(&hit, aligner, matrix, gapOpen, gapExt, refSeq, querySeq); err != nil {
					return err
				}
			}

			if topK != nil {
				topK.AddHit(hit)
			}
			if writer != nil {
				if err := writer.writeLine(FormatRecord(hit, cfg, ref, query)); err != nil {
					return err
				}
			}

			if cfg.StopAfterFirst {
				break
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

func polish(hit *Hit, aligner *banded.Aligner, matrix banded.ScoreMatrix, gapOpen, gapExt int8, refSeq, querySeq []byte) error {
	u := banded.NewSubstring(refSeq, hit.UStart, hit.USubstringLength)
	v := banded.NewSubstring(querySeq, hit.VStart, hit.VSubstringLength)

	score, err := aligner.Align(matrix, gapOpen, gapExt, u, v, false, int64(hit.RawScore))
	if err != nil {
		return err
	}
	eo := eoplist.New()
	aligner.Traceback(eo, u, v)
	hit.VerifiedScore = score
	hit.Cigar = eo.CigarString(true)

	if debugAssertions {
		recomputed := eo.EvaluateScore(substringBytes(u), substringBytes(v), gapOpen, gapExt, matrix.Rows)
		if recomputed != score {
			return fmt.Errorf("pairsearch: internal: polished score %d disagrees with eoplist.EvaluateScore %d", score, recomputed)
		}
	}
	return nil
}

func substringBytes(s banded.Substring) []byte {
	out := make([]byte, s.Len())
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}

func mergeTopK(perThread []*TopKHeap, k int) []Hit {
	merged := NewTopKHeap(k)
	for _, h := range perThread {
		if h == nil {
			continue
		}
		for _, hit := range h.Sorted() {
			merged.AddHit(hit)
		}
	}
	return merged.Sorted()
}
