package pairsearch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnkit/seqalign/eoplist"
)

// DisplaySpec selects the composable extra columns FormatRecord appends
// beyond the base ref/query/score/coordinate fields, mirroring the CLI's
// "-a" flag letters.
type DisplaySpec struct {
	VerifyScore    bool
	SCov           bool
	QCov           bool
	Identity       bool
	Cigar          bool
	SSubstr        bool
	QSubstr        bool
	AlignmentWidth bool
}

// FieldsHeader renders the "# Fields:" header line advertising the exact
// column order FormatRecord produces for cfg, so every output stream
// (stdout best-K and each per-thread streaming file) can prefix itself
// with the same line.
func FieldsHeader(cfg Config) string {
	var b strings.Builder
	b.WriteString("# Fields: s_id\tq_id\traw_score\tstrand")
	if cfg.CoordinateMode == 1 {
		b.WriteString("\ts_end\tq_end")
	} else {
		b.WriteString("\ts_start\ts_len\tq_start\tq_len")
	}
	if cfg.Display.SCov {
		b.WriteString("\ts_cov")
	}
	if cfg.Display.QCov {
		b.WriteString("\tq_cov")
	}
	if cfg.Display.AlignmentWidth {
		b.WriteString("\talignment_width")
	}
	if cfg.Display.SSubstr {
		b.WriteString("\ts_substr")
	}
	if cfg.Display.QSubstr {
		b.WriteString("\tq_substr")
	}
	if cfg.Display.VerifyScore {
		b.WriteString("\tverified_score")
	}
	if cfg.Display.Cigar {
		b.WriteString("\tcigar")
	}
	if cfg.Display.Identity {
		b.WriteString("\tidentity")
	}
	return b.String()
}

// FormatRecord renders one Hit as a TSV row: reference header, query
// header, score, strand, then ref/query start+length, followed by
// whichever extra columns cfg.Display selects.
func FormatRecord(h Hit, cfg Config, ref, query Multiseq) string {
	var b strings.Builder
	strand := "+"
	if !h.ForwardStrand {
		strand = "-"
	}
	sID, qID := fmt.Sprint(h.RefID), fmt.Sprint(h.QueryID)
	if cfg.ShowHeaders {
		sID, qID = ref.ShortHeader(int(h.RefID)), query.ShortHeader(int(h.QueryID))
	}
	if cfg.CoordinateMode == 1 {
		fmt.Fprintf(&b, "%s\t%s\t%d\t%s\t%d\t%d",
			sID, qID,
			h.RawScore, strand,
			h.UStart+h.USubstringLength-1,
			h.VStart+h.VSubstringLength-1)
	} else {
		fmt.Fprintf(&b, "%s\t%s\t%d\t%s\t%d\t%d\t%d\t%d",
			sID, qID,
			h.RawScore, strand,
			h.UStart, h.USubstringLength,
			h.VStart, h.VSubstringLength)
	}

	if cfg.Display.SCov {
		fmt.Fprintf(&b, "\t%s", formatCoverage(h.USubstringLength, ref.SequenceLength(int(h.RefID))))
	}
	if cfg.Display.QCov {
		fmt.Fprintf(&b, "\t%s", formatCoverage(h.VSubstringLength, query.SequenceLength(int(h.QueryID))))
	}
	if cfg.Display.AlignmentWidth {
		width := h.VSubstringLength
		if h.USubstringLength > width {
			width = h.USubstringLength
		}
		fmt.Fprintf(&b, "\t%d", width)
	}
	if cfg.Display.SSubstr {
		fmt.Fprintf(&b, "\t%s", substring(ref.SequencePtr(int(h.RefID)), h.UStart, h.USubstringLength, cfg.Alphabet))
	}
	if cfg.Display.QSubstr {
		fmt.Fprintf(&b, "\t%s", substring(query.SequencePtr(int(h.QueryID)), h.VStart, h.VSubstringLength, cfg.Alphabet))
	}
	if cfg.Display.VerifyScore {
		fmt.Fprintf(&b, "\t%d", h.VerifiedScore)
	}
	if cfg.Display.Cigar {
		fmt.Fprintf(&b, "\t%s", h.Cigar)
	}
	if cfg.Display.Identity {
		fmt.Fprintf(&b, "\t%s", formatIdentity(h.Cigar))
	}
	return b.String()
}

func formatIdentity(cigar string) string {
	if cigar == "" {
		return "NA"
	}
	ops, err := eoplist.ParseCigar(true, cigar)
	if err != nil {
		return "NA"
	}
	return strconv.FormatFloat(100-ops.ErrorPercentage()/2, 'f', 2, 64)
}

func formatCoverage(alignedLen, totalLen int) string {
	if totalLen == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(100*float64(alignedLen)/float64(totalLen), 'f', 2, 64)
}

// substring decodes seq[start:start+length] from matrix codes (0..A-1)
// back to the alphabet's characters, so s-substr/q-substr columns are
// readable residues rather than raw control bytes. With no alphabet
// known, it falls back to stringifying the codes as-is.
func substring(seq []byte, start, length int, alphabet string) string {
	if start < 0 || length <= 0 || start+length > len(seq) {
		return ""
	}
	codes := seq[start : start+length]
	if alphabet == "" {
		return string(codes)
	}
	out := make([]byte, length)
	for i, c := range codes {
		if int(c) < len(alphabet) {
			out[i] = alphabet[c]
		} else {
			out[i] = '?'
		}
	}
	return string(out)
}
