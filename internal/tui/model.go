package tui

import (
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"dmmap/internal/geom"
	"dmmap/internal/mapview"
	"dmmap/internal/store"
	"dmmap/internal/visibility"
)

// Options configures a Model. Zero values fall back to package defaults.
type Options struct {
	Center        geom.LatLng
	Style         mapview.Style
	Threshold     int
	IdleDelay     time.Duration
	PanFrames     int
	ProgressEvery int
	// Store receives every successfully ingested list; may be nil.
	Store store.Store
}

const defaultIdleDelay = 150 * time.Millisecond

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom   float64
	status string

	opts Options

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	// Data
	view mapview.State
	vis  visibility.Controller
	idle visibility.IdleGate
	bbox geom.BBox
	// bbox is meaningful only with points loaded
	hasBBox bool

	pan        mapview.Pan
	panTicking bool

	// ingestion in flight, nil when idle
	run      *ingestRun
	progress geom.Progress
	initCmd  tea.Cmd

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// add point form
	form addForm

	// points table
	showTable bool
	tbl       table.Model

	// hover state
	hoverHasGeo bool
	hoverLat    float64
	hoverLng    float64
}

func New(opts Options) Model {
	if opts.IdleDelay <= 0 {
		opts.IdleDelay = defaultIdleDelay
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = geom.DefaultProgressEvery
	}
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "dmmap ready",
		opts:        opts,
		view:        mapview.New(opts.Center, opts.Style),
		vis:         visibility.New(opts.Threshold),
		idle:        visibility.IdleGate{Window: opts.IdleDelay},
		pan:         mapview.NewPan(opts.PanFrames),
		form:        newAddForm(),
	}
	m.pan.PanTo(m.view.Focus())
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste DMM coordinates, one pair per line (4023.6174N,07923.6174W). Enter to load; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = newPointsTable()
	m.refreshDir()
	return m
}

// NewWithPath starts ingesting path as soon as the program runs.
func NewWithPath(path string, opts Options) Model {
	m := New(opts)
	m.initCmd = m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.initCmd
}
