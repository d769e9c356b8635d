package geom

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func ingestString(t *testing.T, s string) Result {
	t.Helper()
	res, err := Ingest(context.Background(), strings.NewReader(s), IngestOptions{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	return res
}

func TestIngestDropsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"4023.6174N,07923.6174W",
		"abc,def",                // bad tokens
		"4023.6174N",             // one field
		"4024.0000N,07924.0000W", // ok
		"4023N,07923.6174W",      // missing minute fraction
		"4025.5000S,00130.0000E,ignored",
		"4023.6174X,07923.6174W", // bad hemisphere
	}, "\n")
	res := ingestString(t, input)

	if got, want := len(res.Points), 3; got != want {
		t.Fatalf("accepted %d points, want %d", got, want)
	}
	for i, p := range res.Points {
		if p.ID != strconv.Itoa(i) {
			t.Errorf("point %d has id %q", i, p.ID)
		}
	}
	if res.Points[2].Lat != -40.425 || res.Points[2].Lng != 1.5 {
		t.Errorf("third point = %+v", res.Points[2])
	}
	if res.Stats.Records != 7 || res.Stats.Accepted != 3 || res.Stats.Rejected != 4 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.Bytes != int64(len(input)) {
		t.Errorf("bytes = %d, want %d", res.Stats.Bytes, len(input))
	}
}

func TestIngestEmpty(t *testing.T) {
	for _, in := range []string{"", "\n\n", "  \n\t\n"} {
		res := ingestString(t, in)
		if len(res.Points) != 0 || res.Stats.Records != 0 {
			t.Errorf("Ingest(%q) = %+v", in, res)
		}
	}
}

func TestIngestSkipsBlankLines(t *testing.T) {
	res := ingestString(t, "\n4023.6174N 07923.6174W\n\n   \n4023.6174S 07923.6174E\n")
	if len(res.Points) != 2 || res.Stats.Records != 2 || res.Stats.Rejected != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.Points[1].ID != "1" || res.Points[1].Lat != -40.39362333 {
		t.Errorf("second point = %+v", res.Points[1])
	}
}

func TestIngestDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"comma", "4023.6174N,07923.6174W\n4023.6174N, 07923.6174W\n", 2},
		{"tab", "4023.6174N\t07923.6174W\n4023.6174N\t07923.6174W\n", 2},
		{"semicolon", "4023.6174N;07923.6174W\n4023.6174N;07923.6174W\n", 2},
		{"pipe", "4023.6174N|07923.6174W\n4023.6174N|07923.6174W\n", 2},
		{"whitespace", "4023.6174N   07923.6174W\n4023.6174N 07923.6174W\n", 2},
		{"crlf", "4023.6174N,07923.6174W\r\n4023.6174N,07923.6174W\r\n", 2},
		{"quoted", "\"4023.6174N\",\"07923.6174W\"\n'x',y\n4023.6174N,07923.6174W\n", 2},
		{"mixed lines", "4023.6174N,07923.6174W\n4023.6174N 07923.6174W\n4023.6174N,07923.6174W\n", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := ingestString(t, tc.input)
			if len(res.Points) != tc.want {
				t.Fatalf("accepted %d points, want %d: %+v", len(res.Points), tc.want, res)
			}
			for _, p := range res.Points {
				if p.Lat != 40.39362333 || p.Lng != -79.39362333 {
					t.Errorf("point = %+v", p)
				}
			}
		})
	}
}

func TestIngestSkipsLeadingBOM(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"csv", "\ufeff4023.6174N,07923.6174W\n4023.6174S,07923.6174E\n"},
		{"free text", "\ufeff4023.6174N 07923.6174W\n4023.6174S 07923.6174E\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := ingestString(t, tc.input)
			if len(res.Points) != 2 || res.Stats.Rejected != 0 {
				t.Fatalf("result = %+v", res)
			}
			if res.Points[0].Lat != 40.39362333 || res.Points[0].Lng != -79.39362333 {
				t.Errorf("first point = %+v", res.Points[0])
			}
			if res.Stats.Bytes != int64(len(tc.input)) {
				t.Errorf("bytes = %d, want %d", res.Stats.Bytes, len(tc.input))
			}
		})
	}
}

func TestIngestOversizedLineIsRejected(t *testing.T) {
	input := "4023.6174N 07923.6174W\n" +
		strings.Repeat("x", 2<<20) + "\n" +
		"4023.6174S 07923.6174E\n"
	res := ingestString(t, input)
	if len(res.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(res.Points))
	}
	if res.Stats.Records != 3 || res.Stats.Accepted != 2 || res.Stats.Rejected != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Points[1].ID != "1" || res.Points[1].Lat != -40.39362333 {
		t.Errorf("second point = %+v", res.Points[1])
	}
}

func TestIngestOversizedLastLineWithoutNewline(t *testing.T) {
	res := ingestString(t, "4023.6174N 07923.6174W\n"+strings.Repeat("y", maxLineBytes+1))
	if len(res.Points) != 1 || res.Stats.Rejected != 1 {
		t.Fatalf("result = %+v", res.Stats)
	}
}

func TestIngestHeaderRowIsDropped(t *testing.T) {
	res := ingestString(t, "Latitude,Longitude\n4023.6174N,07923.6174W\n")
	if len(res.Points) != 1 || res.Points[0].ID != "0" || res.Stats.Rejected != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		sample string
		want   rune
	}{
		{"a,b\nc,d\n", ','},
		{"a\tb\nc\td\n", '\t'},
		{"a;b\nc;d\ne f\n", ';'},
		{"a b\nc d\n", 0},
		{"a,b\nc d\ne f\n", 0}, // comma on a minority of lines
		{"", 0},
	}
	for _, tc := range tests {
		if got := detectDelimiter([]byte(tc.sample), false); got != tc.want {
			t.Errorf("detectDelimiter(%q) = %q, want %q", tc.sample, got, tc.want)
		}
	}
}

func TestIngestLargeInputProgress(t *testing.T) {
	var b strings.Builder
	const n = 2500
	for i := 0; i < n; i++ {
		if i%10 == 9 {
			b.WriteString("garbage line\n")
			continue
		}
		fmt.Fprintf(&b, "%02d%02d.5000N %03d%02d.2500E\n", i%90, i%60, i%180, i%60)
	}
	var calls []Progress
	res, err := Ingest(context.Background(), strings.NewReader(b.String()), IngestOptions{
		ProgressEvery: 1000,
		Progress:      func(p Progress) { calls = append(calls, p) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != n-n/10 {
		t.Fatalf("accepted %d, want %d", len(res.Points), n-n/10)
	}
	if last := res.Points[len(res.Points)-1]; last.ID != strconv.Itoa(n-n/10-1) {
		t.Errorf("last id = %q", last.ID)
	}
	if len(calls) != 3 {
		t.Fatalf("progress calls = %d, want 3", len(calls))
	}
	if calls[0].Records != 1000 || calls[2].Records != n || calls[2].Accepted != len(res.Points) {
		t.Errorf("progress = %+v", calls)
	}
}

func TestIngestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Ingest(ctx, strings.NewReader("4023.6174N 07923.6174W\n"), IngestOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Points != nil {
		t.Errorf("cancelled run returned points: %+v", res.Points)
	}
}

type failingReader struct {
	data string
	read bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("disk on fire")
}

func TestIngestTransportFailureReturnsNoPartialResult(t *testing.T) {
	r := &failingReader{data: "4023.6174N 07923.6174W\n4023.6174N 07923.6174W\n"}
	res, err := Ingest(context.Background(), r, IngestOptions{})
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("err = %v", err)
	}
	if len(res.Points) != 0 || res.Stats != (Stats{}) {
		t.Errorf("partial result leaked: %+v", res)
	}
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.csv")
	data := "4023.6174N,07923.6174W\n4023.6174S,07923.6174E\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	var last Progress
	res, err := IngestFile(context.Background(), path, IngestOptions{Progress: func(p Progress) { last = p }})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != 2 || last.Total != int64(len(data)) {
		t.Fatalf("res = %+v, last progress = %+v", res, last)
	}

	_, err = IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), IngestOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}
