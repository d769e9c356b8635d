package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dmmap/internal/geom"
	"dmmap/internal/mapview"
	"dmmap/internal/metrics"
)

type UploadResponse struct {
	Coordinates []geom.Point `json:"coordinates"`
	Stats       geom.Stats   `json:"stats"`
}

type CoordinatesResponse struct {
	Coordinates []geom.Point `json:"coordinates"`
}

type TileStyle struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type TilesResponse struct {
	Styles []TileStyle `json:"styles"`
}

// UploadHandler parses the multipart "file" field and replaces the stored
// coordinates. A failed parse leaves the store untouched.
func UploadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return errBadRequest(c, "no file uploaded")
		}
		f, err := fh.Open()
		if err != nil {
			return errInternal(c, "failed to read file: "+err.Error())
		}
		defer f.Close()

		run := uuid.NewString()
		start := time.Now()
		res, err := deps.ingest()(c.UserContext(), f, geom.IngestOptions{
			ProgressEvery: deps.ProgressEvery,
			Total:         fh.Size,
		})
		metrics.ObserveIngest(res.Stats, time.Since(start), err)
		if err != nil {
			slog.Error("upload ingest failed", "run", run, "file", fh.Filename, "error", err)
			return errInternal(c, "failed to parse file: "+err.Error())
		}
		slog.Info("upload ingested",
			"run", run,
			"file", fh.Filename,
			"records", res.Stats.Records,
			"accepted", res.Stats.Accepted,
			"rejected", res.Stats.Rejected,
			"bytes", res.Stats.Bytes,
		)

		if err := deps.Store.Put(c.UserContext(), res.Points); err != nil {
			slog.Error("store put failed", "run", run, "error", err)
			return errInternal(c, "failed to store coordinates")
		}

		pts := res.Points
		if pts == nil {
			pts = []geom.Point{}
		}
		return c.JSON(UploadResponse{Coordinates: pts, Stats: res.Stats})
	}
}

// CoordinatesHandler returns the last uploaded coordinates.
func CoordinatesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pts, err := deps.Store.Get(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(CoordinatesResponse{Coordinates: pts})
	}
}

// GeoJSONHandler returns the last uploaded coordinates as a FeatureCollection.
func GeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pts, err := deps.Store.Get(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(geom.ToGeoJSON(pts), "application/geo+json")
	}
}

func TilesHandler() fiber.Handler {
	var resp TilesResponse
	for _, s := range mapview.Styles() {
		resp.Styles = append(resp.Styles, TileStyle{Name: s.String(), URL: s.TileURL()})
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(resp)
	}
}

func HealthHandler() fiber.Handler {
	startedAt := time.Now()
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"uptime": time.Since(startedAt).String(),
		})
	}
}
