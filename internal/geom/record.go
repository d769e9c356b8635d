package geom

import (
	"strings"
	"unicode"
)

type RecordKind int

const (
	// SplitFields records were already cut into fields by a delimiter-aware reader.
	SplitFields RecordKind = iota
	// RawLine records are a single unsplit line of text.
	RawLine
)

// RawRecord is one input record before extraction. Kind says which of
// Fields or Line is meaningful.
type RawRecord struct {
	Kind   RecordKind
	Fields []string
	Line   string
}

func Fields(f ...string) RawRecord { return RawRecord{Kind: SplitFields, Fields: f} }

func Line(s string) RawRecord { return RawRecord{Kind: RawLine, Line: s} }

// Extract returns the latitude and longitude candidates of rec: the first two
// fields (SplitFields) or the first two tokens after splitting on runs of
// whitespace, commas and tabs (RawLine). ok is false when fewer than two
// usable values exist.
func Extract(rec RawRecord) (lat, lng string, ok bool) {
	switch rec.Kind {
	case SplitFields:
		if len(rec.Fields) < 2 {
			return "", "", false
		}
		lat, lng = strings.TrimSpace(rec.Fields[0]), strings.TrimSpace(rec.Fields[1])
	case RawLine:
		parts := strings.FieldsFunc(rec.Line, isTokenSep)
		if len(parts) < 2 {
			return "", "", false
		}
		lat, lng = parts[0], parts[1]
	default:
		return "", "", false
	}
	if lat == "" || lng == "" {
		return "", "", false
	}
	return lat, lng, true
}

func isTokenSep(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
