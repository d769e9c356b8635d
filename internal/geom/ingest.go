package geom

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultProgressEvery = 1000

	sampleSize   = 64 << 10
	maxLineBytes = 1 << 20
)

var utf8BOM = []byte("\xef\xbb\xbf")

// candidate delimiters, in tie-break order
var delimiters = []rune{',', '\t', ';', '|'}

type Stats struct {
	Records  int   `json:"records"`
	Accepted int   `json:"accepted"`
	Rejected int   `json:"rejected"`
	Bytes    int64 `json:"bytes"`
}

type Progress struct {
	Records  int
	Accepted int
	Bytes    int64
	Total    int64 // 0 when the input size is unknown
}

type Result struct {
	Points []Point
	Stats  Stats
}

type IngestOptions struct {
	// ProgressEvery is the record cadence for Progress calls and ctx checks.
	ProgressEvery int
	Progress      func(Progress)
	Total         int64
}

// Ingest reads DMM coordinate records from r. Bad rows are dropped and only
// counted; a read error or ctx cancellation aborts the run and returns an
// empty Result so callers never see a partial list.
func Ingest(ctx context.Context, r io.Reader, opts IngestOptions) (Result, error) {
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cr := &countingReader{r: r}
	br := bufio.NewReaderSize(cr, sampleSize)
	sample, err := br.Peek(sampleSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("read input: %w", err)
	}
	truncated := len(sample) == sampleSize
	if bytes.HasPrefix(sample, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return Result{}, fmt.Errorf("read input: %w", err)
		}
		sample = sample[len(utf8BOM):]
	}

	var src recordSource
	if d := detectDelimiter(sample, truncated); d != 0 {
		src = newCSVSource(br, d)
	} else {
		src = newLineSource(br)
	}

	var res Result
	report := func() {
		if opts.Progress != nil {
			opts.Progress(Progress{
				Records:  res.Stats.Records,
				Accepted: res.Stats.Accepted,
				Bytes:    cr.n,
				Total:    opts.Total,
			})
		}
	}
	for {
		rec, err := src.next()
		if errors.Is(err, io.EOF) {
			break
		}
		res.Stats.Records++
		switch {
		case errors.Is(err, errMalformed):
			res.Stats.Rejected++
		case err != nil:
			return Result{}, fmt.Errorf("read input: %w", err)
		default:
			if p, ok := decodeRecord(rec, len(res.Points)); ok {
				res.Points = append(res.Points, p)
				res.Stats.Accepted++
			} else {
				res.Stats.Rejected++
			}
		}
		if res.Stats.Records%every == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			report()
		}
	}
	res.Stats.Bytes = cr.n
	report()
	return res, nil
}

// IngestFile opens path and ingests it, reporting the file size as Total.
func IngestFile(ctx context.Context, path string, opts IngestOptions) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if fi, err := f.Stat(); err == nil {
		opts.Total = fi.Size()
	}
	return Ingest(ctx, f, opts)
}

func decodeRecord(rec RawRecord, next int) (Point, bool) {
	latRaw, lngRaw, ok := Extract(rec)
	if !ok {
		return Point{}, false
	}
	lat, err := DecodeDMM(latRaw)
	if err != nil {
		return Point{}, false
	}
	lng, err := DecodeDMM(lngRaw)
	if err != nil {
		return Point{}, false
	}
	return Point{ID: strconv.Itoa(next), Lat: lat, Lng: lng}, true
}

// detectDelimiter picks the candidate present on most sampled non-blank
// lines, provided it shows up on a majority of them. 0 means free text.
func detectDelimiter(sample []byte, truncated bool) rune {
	lines := bytes.Split(sample, []byte("\n"))
	if truncated && len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}
	counts := make([]int, len(delimiters))
	nonBlank := 0
	for _, ln := range lines {
		s := strings.TrimSpace(string(ln))
		if s == "" {
			continue
		}
		nonBlank++
		for i, d := range delimiters {
			if strings.ContainsRune(s, d) {
				counts[i]++
			}
		}
	}
	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 || counts[best]*2 <= nonBlank {
		return 0
	}
	return delimiters[best]
}

var errMalformed = errors.New("malformed record")

type recordSource interface {
	// next returns io.EOF at the end and errMalformed for a record that
	// could not be tokenised; any other error is a transport failure.
	next() (RawRecord, error)
}

type csvSource struct{ r *csv.Reader }

func newCSVSource(r io.Reader, comma rune) *csvSource {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return &csvSource{r: cr}
}

func (s *csvSource) next() (RawRecord, error) {
	for {
		fields, err := s.r.Read()
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return RawRecord{}, errMalformed
			}
			return RawRecord{}, err
		}
		if blankFields(fields) {
			continue
		}
		// a row without the delimiter is still worth a free-text split
		if len(fields) == 1 {
			return Line(fields[0]), nil
		}
		return Fields(fields...), nil
	}
}

func blankFields(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

type lineSource struct{ r *bufio.Reader }

func newLineSource(r *bufio.Reader) *lineSource { return &lineSource{r: r} }

func (s *lineSource) next() (RawRecord, error) {
	for {
		ln, tooLong, err := readLine(s.r)
		if err != nil {
			return RawRecord{}, err
		}
		if tooLong {
			return RawRecord{}, errMalformed
		}
		if strings.TrimSpace(string(ln)) == "" {
			continue
		}
		return Line(string(ln)), nil
	}
}

// readLine returns the next line without its terminator. A line longer
// than maxLineBytes is consumed up to its end and reported as tooLong.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		frag, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(frag) > maxLineBytes {
				tooLong, line = true, nil
			} else {
				line = append(line, frag...)
			}
		}
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil, errors.Is(err, io.EOF) && (len(line) > 0 || tooLong):
			line = bytes.TrimSuffix(line, []byte("\n"))
			return bytes.TrimSuffix(line, []byte("\r")), tooLong, nil
		default:
			return nil, false, err
		}
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
