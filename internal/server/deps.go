package server

import (
	"context"
	"io"

	"dmmap/internal/geom"
	"dmmap/internal/store"
)

// IngestFunc parses an uploaded body into points.
type IngestFunc func(ctx context.Context, r io.Reader, opts geom.IngestOptions) (geom.Result, error)

// Dependencies holds the collaborators shared by all HTTP handlers.
type Dependencies struct {
	Store         store.Store
	ProgressEvery int
	// Ingest defaults to geom.Ingest.
	Ingest IngestFunc
}

func (d *Dependencies) ingest() IngestFunc {
	if d.Ingest != nil {
		return d.Ingest
	}
	return geom.Ingest
}
