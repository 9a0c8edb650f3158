/*
seqalign-search performs all-against-all local alignment of a query bank
against a reference bank, reporting hits scoring at or above a threshold.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/alnkit/seqalign/align/blaststat"
	"github.com/alnkit/seqalign/align/scorematrix"
	"github.com/alnkit/seqalign/cmd/seqalign-search/fastaload"
	"github.com/alnkit/seqalign/pairsearch"
)

var (
	dbPath         = flag.String("d", "", "Input reference (database) FASTA path (required)")
	queryPath      = flag.String("q", "", "Input query FASTA path; defaults to the reference path")
	matrixName     = flag.String("s", "", "Score matrix name (default chosen by alphabet)")
	gapFlags       = flag.String("g", "11 1", "\"<open> <ext>\" gap penalties")
	vMode          = flag.Int("v", 0, "Vectorisation/coordinate mode {0,1,2}")
	noReverse      = flag.Bool("n", false, "Disable reverse-strand search for DNA")
	showHeaders    = flag.Bool("h", false, "Show sequence headers instead of indices")
	minScore       = flag.Int("c", 0, "Minimum bit (or raw, without BLAST statistics) score")
	threads        = flag.Int("t", 1, "Number of worker threads")
	outPrefix      = flag.String("o", "", "Per-thread output file prefix")
	restrictPath   = flag.String("r", "", "Pair-restriction file")
	displaySpec    = flag.String("a", "", "Comma-separated display flags: verify-score,s-cov,q-cov,identity,cigar,s-substr,q-substr,alignment-width")
	optMemory      = flag.Bool("m", false, "Trade space for time in polishing (compact traceback bits)")
	topK           = flag.Int("b", 0, "Emit global top-K only (0 = unbounded)")
	stopAfterFirst = flag.Bool("f", false, "Stop after the first match per reference")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -d <dbfile> [options]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Other options:\n")
	flag.PrintDefaults()
}

func parseDisplaySpec(s string) (pairsearch.DisplaySpec, error) {
	var d pairsearch.DisplaySpec
	if s == "" {
		return d, nil
	}
	for _, tok := range strings.Split(s, ",") {
		switch strings.TrimSpace(tok) {
		case "verify-score":
			d.VerifyScore = true
		case "s-cov":
			d.SCov = true
		case "q-cov":
			d.QCov = true
		case "identity":
			d.Identity = true
		case "cigar":
			d.Cigar = true
		case "s-substr":
			d.SSubstr = true
		case "q-substr":
			d.QSubstr = true
		case "alignment-width":
			d.AlignmentWidth = true
		default:
			return d, fmt.Errorf("unknown display flag %q", tok)
		}
	}
	return d, nil
}

func parseGapFlags(s string) (int8, int8, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("-g requires exactly two integers, got %q", s)
	}
	open, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("-g open penalty: %w", err)
	}
	ext, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("-g ext penalty: %w", err)
	}
	return int8(open), int8(ext), nil
}

func run() error {
	flag.Usage = usage
	flag.Parse()

	if *dbPath == "" {
		return fmt.Errorf("-d <dbfile> is required")
	}
	qPath := *queryPath
	if qPath == "" {
		qPath = *dbPath
	}

	dnaAlphabet := *matrixName == "" || strings.HasPrefix(*matrixName, "unit")
	matrix, err := scorematrix.Lookup(*matrixName, dnaAlphabet)
	if err != nil {
		return err
	}

	gapOpen, gapExt, err := parseGapFlags(*gapFlags)
	if err != nil {
		return err
	}

	display, err := parseDisplaySpec(*displaySpec)
	if err != nil {
		return err
	}

	ref, err := fastaload.Load(*dbPath, matrix)
	if err != nil {
		return err
	}
	query := ref
	if qPath != *dbPath {
		query, err = fastaload.Load(qPath, matrix)
		if err != nil {
			return err
		}
	}

	var restriction *pairsearch.PairRestriction
	if *restrictPath != "" {
		f, err := os.Open(*restrictPath)
		if err != nil {
			return fmt.Errorf("opening pair restriction file: %w", err)
		}
		defer f.Close()
		headerIndex := ref.HeaderIndex()
		for h, id := range query.HeaderIndex() {
			if _, ok := headerIndex[h]; !ok {
				headerIndex[h] = id
			}
		}
		restriction, err = pairsearch.LoadPairRestriction(f, headerIndex)
		if err != nil {
			return err
		}
	}

	var stats *blaststat.Stats
	useBitScore := !dnaAlphabet
	if useBitScore {
		stats, err = blaststat.NewBlosum62Stats(gapOpen, gapExt, false)
		if err != nil {
			log.Printf("blast statistics unavailable for (gapOpen=%d, gapExt=%d): %v; falling back to raw scores", gapOpen, gapExt, err)
			useBitScore = false
		}
	}

	var sink pairsearch.Sink
	if *outPrefix != "" || *topK == 0 {
		sink, err = pairsearch.NewStreamSink(*outPrefix, *threads)
		if err != nil {
			return err
		}
	}

	cfg := pairsearch.Config{
		Cut:            2000,
		Threads:        *threads,
		MinScore:       uint32(*minScore),
		UseBitScore:    useBitScore,
		TopK:           *topK,
		StopAfterFirst: *stopAfterFirst,
		ReverseStrand:  dnaAlphabet && !*noReverse,
		ShowHeaders:    *showHeaders,
		Display:        display,
		OptMemory:      *optMemory,
		PolishScores:   display.VerifyScore || display.Cigar || display.Identity,
		CoordinateMode: *vMode,
		Alphabet:       matrix.Alphabet,
	}

	ctx := vcontext.Background()
	hits, err := pairsearch.Run(ctx, cfg, ref, query, matrix.Banded(), gapOpen, gapExt, stats, restriction, sink)
	if err != nil {
		if sink != nil {
			sink.Close()
		}
		return err
	}

	if sink != nil {
		if err := sink.Close(); err != nil {
			return err
		}
	}
	if hits != nil {
		fmt.Println(pairsearch.FieldsHeader(cfg))
		for _, h := range hits {
			fmt.Println(pairsearch.FormatRecord(h, cfg, ref, query))
		}
	}
	return nil
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}
