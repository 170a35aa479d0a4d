package runner

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/mudesheng/ecc/bioseq"
)

func openConfigFile(fn string) (*os.File, error) {
	return os.Open(fn)
}

// readsFileFormat inspects fn's suffix to decide fasta vs fastq, the same
// way GetReadsFileFormat does, except a trailing ".zst" is peeled off
// first since this module's reads arrive zstd-compressed rather than
// brotli-compressed (A.1).
func readsFileFormat(fn string) string {
	name := fn
	if strings.HasSuffix(name, ".zst") {
		name = name[:len(name)-len(".zst")]
	}
	switch {
	case strings.HasSuffix(name, ".fa") || strings.HasSuffix(name, ".fasta"):
		return "fa"
	case strings.HasSuffix(name, ".fq") || strings.HasSuffix(name, ".fastq"):
		return "fq"
	default:
		log.Fatalf("[readsFileFormat] reads file: %v needs a '*.fa[.zst]|*.fasta[.zst]|*.fq[.zst]|*.fastq[.zst]' suffix\n", fn)
		return ""
	}
}

// loadReads streams bioseq.Read values from fn into cs, closing cs when the
// file is exhausted, the Go counterpart of LoadNGSReads/GetReadFileRecord.
// Each read's Idx is assigned in file order, the id correctionworkers and
// the overlap service agree on for excluding a read from its own matches.
func loadReads(fn string, cs chan<- bioseq.Read) {
	format := readsFileFormat(fn)

	fp, err := os.Open(fn)
	if err != nil {
		log.Fatalf("[loadReads] failed to open file: %v, err: %v\n", fn, err)
	}
	defer fp.Close()

	var r io.Reader = fp
	if strings.HasSuffix(fn, ".zst") {
		zr, err := zstd.NewReader(fp)
		if err != nil {
			log.Fatalf("[loadReads] failed to open zstd reader on file: %v, err: %v\n", fn, err)
		}
		defer zr.Close()
		r = zr
	}

	buffp := bufio.NewReaderSize(r, 1<<20)
	var count int64
	var idx int64
	for {
		read, err := readRecord(buffp, format, idx)
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatalf("[loadReads] file: %v encountered err: %v\n", fn, err)
		}
		cs <- read
		idx++
		count++
	}
	fmt.Printf("[loadReads] processed %d reads from file: %s\n", count, fn)
	close(cs)
}

// readRecord reads one fasta (2-line) or fastq (4-line) record, mirroring
// GetReadFileRecord's block-read-then-parse shape.
func readRecord(buffp *bufio.Reader, format string, idx int64) (bioseq.Read, error) {
	blockLineNum := 2
	if format == "fq" {
		blockLineNum = 4
	}
	b := make([][]byte, blockLineNum)
	var err error
	i := 0
	for ; i < blockLineNum; i++ {
		b[i], err = buffp.ReadBytes('\n')
		if err != nil {
			break
		}
	}
	if err != nil {
		if err == io.EOF {
			if i == 0 {
				return bioseq.Read{}, io.EOF
			}
			if i != blockLineNum-1 {
				return bioseq.Read{}, fmt.Errorf("found unbroken record, line %d of %d", i, blockLineNum)
			}
		} else {
			return bioseq.Read{}, err
		}
	}

	header := strings.TrimSpace(string(b[0]))
	header = strings.TrimPrefix(header, ">")
	header = strings.TrimPrefix(header, "@")
	fields := strings.Fields(header)
	id := ""
	if len(fields) > 0 {
		id = fields[0]
	}

	read := bioseq.Read{ID: id, Seq: trimNewline(b[1]), Idx: idx}
	if format == "fq" && len(b) > 3 {
		read.Qual = trimNewline(b[3])
	}
	return read, nil
}

func trimNewline(b []byte) []byte {
	n := len(b)
	for n > 0 && (b[n-1] == '\n' || b[n-1] == '\r') {
		n--
	}
	out := make([]byte, n)
	copy(out, b[:n])
	return out
}

// newSink opens fn (creating/truncating it) and wraps it in a zstd writer,
// the way writeCorrectReads wraps its output file in a streaming
// compressor (cbrotli there, klauspost/compress/zstd here; see DESIGN.md).
func newSink(fn string) (io.WriteCloser, error) {
	fp, err := os.Create(fn)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(fp)
	if err != nil {
		fp.Close()
		return nil, err
	}
	return &sinkCloser{fp: fp, zw: zw}, nil
}

// sinkCloser closes the zstd writer (flushing its frame) before closing the
// underlying file, so a deferred Close leaves a valid compressed stream.
type sinkCloser struct {
	fp *os.File
	zw *zstd.Encoder
}

func (s *sinkCloser) Write(p []byte) (int, error) { return s.zw.Write(p) }

func (s *sinkCloser) Close() error {
	if err := s.zw.Close(); err != nil {
		s.fp.Close()
		return err
	}
	return s.fp.Close()
}
