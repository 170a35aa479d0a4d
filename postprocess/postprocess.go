// Package postprocess implements C10: the corrected/discarded read sinks
// and per-run correction metrics, grounded on ErrorCorrectPostProcess from
// the original implementation.
package postprocess

import (
	"fmt"
	"io"

	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/correct"
)

// SampleTable tracks, per bucket key, how many bases fell into that bucket
// and how many of those were corrected (an "error"), mirroring
// ErrorCorrectPostProcess's CorrectionRecord-style metric members.
type SampleTable struct {
	samples map[string]int64
	errors  map[string]int64
	order   []string
}

// NewSampleTable returns an empty table.
func NewSampleTable() *SampleTable {
	return &SampleTable{samples: make(map[string]int64), errors: make(map[string]int64)}
}

func (t *SampleTable) touch(key string) {
	if _, ok := t.samples[key]; !ok {
		t.order = append(t.order, key)
	}
}

// IncrementSample records one more base observed at key.
func (t *SampleTable) IncrementSample(key string) {
	t.touch(key)
	t.samples[key]++
}

// IncrementError records one more corrected base observed at key.
func (t *SampleTable) IncrementError(key string) {
	t.touch(key)
	t.errors[key]++
}

// Write renders the table as "header", a column line "label\tcount\terrors\trate",
// then one "key\tcount\terrors\trate" line per key, in first-seen order
// (matching the original's insertion-order map).
func (t *SampleTable) Write(w io.Writer, header, label string) {
	fmt.Fprint(w, header)
	fmt.Fprintf(w, "%s\tcount\terrors\trate\n", label)
	for _, key := range t.order {
		n := t.samples[key]
		e := t.errors[key]
		var rate float64
		if n > 0 {
			rate = float64(e) / float64(n)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\n", key, n, e, rate)
	}
}

// Metrics is the full set of per-run correction metrics (D.5), gathered
// only for reads that passed some QC path, matching collectMetrics's
// readQCPass gate.
type Metrics struct {
	Position     *SampleTable
	Quality      *SampleTable
	OriginalBase *SampleTable
	PrecedingMer *SampleTable

	TotalBases  int64
	TotalErrors int64
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Position:     NewSampleTable(),
		Quality:      NewSampleTable(),
		OriginalBase: NewSampleTable(),
		PrecedingMer: NewSampleTable(),
	}
}

// precedingLen is the length of the preceding-kmer bucket, matching
// collectMetrics's hardcoded precedingLen = 2.
const precedingLen = 2

// collect implements collectMetrics: it walks originalSeq/correctedSeq
// position by position, updating every SampleTable.
func (m *Metrics) collect(originalSeq, correctedSeq, qual []byte) {
	for i := 0; i < len(originalSeq); i++ {
		m.TotalBases++

		posKey := fmt.Sprintf("%d", i)
		m.Position.IncrementSample(posKey)

		var qualKey string
		hasQual := len(qual) > 0
		if hasQual {
			qualKey = string(qual[i])
			m.Quality.IncrementSample(qualKey)
		}

		baseKey := string(originalSeq[i])
		m.OriginalBase.IncrementSample(baseKey)

		var precedingKey string
		hasPreceding := i > precedingLen
		if hasPreceding {
			precedingKey = string(originalSeq[i-precedingLen : i])
			m.PrecedingMer.IncrementSample(precedingKey)
		}

		if i < len(correctedSeq) && originalSeq[i] != correctedSeq[i] {
			m.Position.IncrementError(posKey)
			if hasQual {
				m.Quality.IncrementError(qualKey)
			}
			m.OriginalBase.IncrementError(baseKey)
			if hasPreceding {
				m.PrecedingMer.IncrementError(precedingKey)
			}
			m.TotalErrors++
		}
	}
}

// Write renders every table to w, in the original's fixed order
// (position, base, preceding-kmer, quality).
func (m *Metrics) Write(w io.Writer) {
	m.Position.Write(w, "Bases corrected by position\n", "pos")
	m.OriginalBase.Write(w, "\nOriginal base that was corrected\n", "base")
	m.PrecedingMer.Write(w, "\nkmer preceding the corrected base\n", "kmer")
	m.Quality.Write(w, "\nBases corrected by quality value\n\n", "quality")
}

// Processor owns the corrected/discard sinks and running counts for one
// correction run (C10). It is documented as single-goroutine-only: callers
// needing concurrent correction workers feed their results through a
// fan-in channel to one Processor goroutine, the way runner wires it.
type Processor struct {
	Corrected io.Writer
	Discard   io.Writer // nil means QC-failed reads are kept in Corrected too

	CollectMetrics bool
	metrics        *Metrics

	kmerPass       int64
	overlapPass    int64
	qcFail         int64
	readsKept      int64
	readsDiscarded int64
}

// NewProcessor builds a Processor writing corrected reads to corrected and
// (if non-nil) QC-failed reads to discard.
func NewProcessor(corrected, discard io.Writer, collectMetrics bool) *Processor {
	p := &Processor{Corrected: corrected, Discard: discard, CollectMetrics: collectMetrics}
	if collectMetrics {
		p.metrics = NewMetrics()
	}
	return p
}

// Process implements ErrorCorrectPostProcess::process: it tallies the QC
// outcome, optionally collects metrics, and writes the read to whichever
// sink its QC outcome selects.
func (p *Processor) Process(read bioseq.Read, result correct.Result) {
	readQCPass := true
	switch {
	case result.KmerQC:
		p.kmerPass++
	case result.OverlapQC:
		p.overlapPass++
	default:
		readQCPass = false
		p.qcFail++
	}

	if p.CollectMetrics && readQCPass {
		p.metrics.collect(read.Seq, result.CorrectedSeq, read.Qual)
	}

	if readQCPass || p.Discard == nil {
		writeRecord(p.Corrected, read.ID, result.CorrectedSeq, read.Qual)
		p.readsKept++
	} else {
		writeRecord(p.Discard, read.ID, result.CorrectedSeq, read.Qual)
		p.readsDiscarded++
	}
}

// writeRecord renders one FASTQ (or FASTA, if qual is empty) record.
func writeRecord(w io.Writer, id string, seq, qual []byte) {
	if len(qual) > 0 {
		fmt.Fprintf(w, "@%s\n%s\n+\n%s\n", id, seq, qual)
	} else {
		fmt.Fprintf(w, ">%s\n%s\n", id, seq)
	}
}

// Metrics returns the collected metrics, or nil if CollectMetrics was false.
func (p *Processor) Metrics() *Metrics { return p.metrics }

// Summary renders the run totals the way ErrorCorrectPostProcess's
// destructor and writeMetrics print to stdout.
func (p *Processor) Summary() string {
	var sb fmtBuilder
	sb.Printf("Reads passed kmer QC check: %d\n", p.kmerPass)
	sb.Printf("Reads passed overlap QC check: %d\n", p.overlapPass)
	sb.Printf("Reads failed QC: %d\n", p.qcFail)
	if p.metrics != nil {
		var rate float64
		if p.metrics.TotalBases > 0 {
			rate = float64(p.metrics.TotalErrors) / float64(p.metrics.TotalBases)
		}
		sb.Printf("ErrorCorrect -- Corrected %d out of %d bases (%f)\n",
			p.metrics.TotalErrors, p.metrics.TotalBases, rate)
	}
	total := p.readsKept + p.readsDiscarded
	var discardRate float64
	if total > 0 {
		discardRate = float64(p.readsDiscarded) / float64(total)
	}
	sb.Printf("Kept %d reads. Discarded %d reads (%f)\n", p.readsKept, p.readsDiscarded, discardRate)
	return sb.String()
}

// fmtBuilder is a tiny strings.Builder-compatible wrapper adding Printf,
// matching the small local helper types the teacher scatters through its
// diagnostics rather than importing a templating package for one method.
type fmtBuilder struct {
	buf []byte
}

func (b *fmtBuilder) Printf(format string, args ...interface{}) {
	b.buf = append(b.buf, []byte(fmt.Sprintf(format, args...))...)
}

func (b *fmtBuilder) String() string { return string(b.buf) }
