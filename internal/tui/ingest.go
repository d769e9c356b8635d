package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"dmmap/internal/geom"
	"dmmap/internal/store"
)

// parseFunc performs one ingestion with the options the run prepared.
type parseFunc func(ctx context.Context, opts geom.IngestOptions) (geom.Result, error)

type ingestRun struct {
	id     string
	source string
	cancel context.CancelFunc
	events chan tea.Msg
}

type ingestProgressMsg struct {
	run string
	p   geom.Progress
}

type ingestDoneMsg struct {
	run    string
	source string
	res    geom.Result
	err    error
	took   time.Duration
}

type storeErrMsg struct{ err error }

type revealMsg struct{ gen uint64 }

type panFrameMsg struct{}

const panFrameInterval = 33 * time.Millisecond

// startIngest supersedes any run in flight and parses in the background.
// Progress arrives as ingestProgressMsg and the outcome as ingestDoneMsg,
// both tagged with the run id.
func (m *Model) startIngest(source string, parse parseFunc) tea.Cmd {
	if m.run != nil {
		m.run.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	run := &ingestRun{
		id:     uuid.NewString(),
		source: source,
		cancel: cancel,
		events: make(chan tea.Msg, 8),
	}
	m.run = run
	m.progress = geom.Progress{}
	m.status = "parsing " + source + "…"
	slog.Debug("ingest started", "run", run.id, "source", source)
	return tea.Batch(runIngest(ctx, run, parse, m.opts.ProgressEvery), waitForProgress(run.events))
}

func runIngest(ctx context.Context, run *ingestRun, parse parseFunc, every int) tea.Cmd {
	return func() tea.Msg {
		defer close(run.events)
		start := time.Now()
		res, err := parse(ctx, geom.IngestOptions{
			ProgressEvery: every,
			Progress: func(p geom.Progress) {
				select {
				case run.events <- ingestProgressMsg{run: run.id, p: p}:
				default:
				}
			},
		})
		took := time.Since(start)
		if err != nil {
			slog.Error("ingest failed", "run", run.id, "source", run.source, "error", err)
		} else {
			slog.Info("ingest finished",
				"run", run.id,
				"source", run.source,
				"records", res.Stats.Records,
				"accepted", res.Stats.Accepted,
				"rejected", res.Stats.Rejected,
				"bytes", res.Stats.Bytes,
				"took", took.String(),
			)
		}
		return ingestDoneMsg{run: run.id, source: run.source, res: res, err: err, took: took}
	}
}

// waitForProgress delivers one progress event and is re-issued after each;
// it returns nil once the run closes its channel.
func waitForProgress(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) loadPath(path string) tea.Cmd {
	m.selPath = path
	return m.startIngest(baseName(path), func(ctx context.Context, opts geom.IngestOptions) (geom.Result, error) {
		return geom.IngestFile(ctx, path, opts)
	})
}

func (m *Model) loadText(text string) tea.Cmd {
	m.selPath = ""
	return m.startIngest("pasted text", func(ctx context.Context, opts geom.IngestOptions) (geom.Result, error) {
		opts.Total = int64(len(text))
		return geom.Ingest(ctx, strings.NewReader(text), opts)
	})
}

func (m Model) handleProgress(msg ingestProgressMsg) (Model, tea.Cmd) {
	if m.run == nil || msg.run != m.run.id {
		return m, nil
	}
	m.progress = msg.p
	m.status = progressStatus(m.run.source, msg.p)
	return m, waitForProgress(m.run.events)
}

func progressStatus(source string, p geom.Progress) string {
	s := fmt.Sprintf("parsing %s… %d rows, %d points", source, p.Records, p.Accepted)
	if p.Total > 0 {
		s += fmt.Sprintf(" (%d%%)", min(100, p.Bytes*100/p.Total))
	}
	return s
}

// handleIngestDone applies a finished run. Results of superseded runs are
// dropped and a failed run leaves the current list as it was.
func (m Model) handleIngestDone(msg ingestDoneMsg) (Model, tea.Cmd) {
	if m.run == nil || msg.run != m.run.id {
		return m, nil
	}
	m.run.cancel()
	m.run = nil
	if msg.err != nil {
		m.status = "load error: " + msg.err.Error()
		return m, nil
	}
	cmd := m.applyPoints(msg.res.Points)
	m.status = fmt.Sprintf("loaded: %s  points=%d rejected=%d", msg.source, msg.res.Stats.Accepted, msg.res.Stats.Rejected)
	return m, tea.Batch(cmd, persist(m.opts.Store, msg.res.Points))
}

// applyPoints replaces the list wholesale, recentres on its first point
// and restages visibility.
func (m *Model) applyPoints(pts []geom.Point) tea.Cmd {
	m.view.Replace(pts)
	if len(pts) > 0 {
		m.view.SetCenter(pts[0].LatLng())
	}
	m.bbox, m.hasBBox = geom.Bounds(pts)
	m.zoom = 1.0
	cmd := m.restage()
	if m.showTable {
		m.refreshTable()
	}
	return tea.Batch(cmd, m.syncFocus())
}

// restage hands the current list to the visibility controller and
// schedules the deferred reveal when it is above the threshold.
func (m *Model) restage() tea.Cmd {
	_, pending := m.vis.Set(m.view.Points())
	if pending == nil {
		return nil
	}
	return m.scheduleReveal(pending.Gen)
}

func (m Model) scheduleReveal(gen uint64) tea.Cmd {
	return tea.Tick(m.opts.IdleDelay, func(time.Time) tea.Msg { return revealMsg{gen: gen} })
}

// handleReveal runs the deferred full reveal once no input arrived within
// the idle window; otherwise it tries again later.
func (m Model) handleReveal(msg revealMsg, now time.Time) (Model, tea.Cmd) {
	if !m.vis.Pending() || msg.gen != m.vis.Gen() {
		return m, nil
	}
	if !m.idle.Idle(now) {
		return m, m.scheduleReveal(msg.gen)
	}
	if m.vis.Reveal(msg.gen) {
		slog.Debug("full list revealed", "points", len(m.vis.Visible()))
		if m.showTable {
			m.refreshTable()
		}
	}
	return m, nil
}

// syncFocus starts a pan animation when the focus moved. Marker-only
// changes leave the focus, and therefore the view, where it is.
func (m *Model) syncFocus() tea.Cmd {
	if !m.pan.PanTo(m.view.Focus()) || m.panTicking {
		return nil
	}
	m.panTicking = true
	return panFrame()
}

func panFrame() tea.Cmd {
	return tea.Tick(panFrameInterval, func(time.Time) tea.Msg { return panFrameMsg{} })
}

func (m Model) handlePanFrame() (Model, tea.Cmd) {
	if m.pan.Step() {
		return m, panFrame()
	}
	m.panTicking = false
	return m, nil
}

func persist(st store.Store, pts []geom.Point) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		if err := st.Put(context.Background(), pts); err != nil {
			slog.Error("store put failed", "error", err)
			return storeErrMsg{err: err}
		}
		return nil
	}
}
