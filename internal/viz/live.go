package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/scene"
)

const (
	width    = 40
	height   = 30
	pvWidth  = 36
	pvHeight = 10

	fineRPM   = 10.0
	coarseRPM = 100.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Options configure the terminal view.
type Options struct {
	FPS     int
	GIFPath string
	Theme   string
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.GIFPath == "" {
		o.GIFPath = "engine.gif"
	}
	return o
}

// Model drives one engine from the bubbletea tick and draws it.
type Model struct {
	eng       *engine.Engine
	log       zerolog.Logger
	builder   scene.Builder
	opts      Options
	canvas    *Canvas
	pv        *Canvas
	frame     int
	showHelp  bool
	labels    bool
	recording bool
	frames    []*image.Paletted
	notice    string
}

func NewModel(eng *engine.Engine, log zerolog.Logger, opts Options) Model {
	opts = opts.withDefaults()
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}
	return Model{
		eng:     eng,
		log:     log.With().Str("component", "tui").Logger(),
		builder: scene.NewBuilder(eng.Geometry(), eng.Solver().BDC().PistonY),
		opts:    opts,
		canvas:  NewCanvas(width, height),
		pv:      NewCanvas(pvWidth, pvHeight),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the engine one frame per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.eng.TogglePause()
		case "s", "right":
			if !m.eng.Paused() {
				m.notice = "pause first to step"
			}
			m.eng.Step()
		case "n":
			if m.eng.Paused() {
				next := (math.Floor(m.eng.Angle()/180) + 1) * 180
				m.eng.Seek(next)
			}
		case "r":
			m.eng.Reset()
			m.log.Info().Msg("reset")
		case "+", "=":
			m.eng.SetRotationalSpeed(m.eng.RPM() + fineRPM)
		case "-", "_":
			m.eng.SetRotationalSpeed(m.eng.RPM() - fineRPM)
		case "]":
			m.eng.SetRotationalSpeed(m.eng.RPM() + coarseRPM)
		case "[":
			m.eng.SetRotationalSpeed(m.eng.RPM() - coarseRPM)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		case "l":
			m.labels = !m.labels
		case "t":
			NextTheme()
		}
	case TickMsg:
		m.eng.Advance(1 / float64(m.opts.FPS))
		m.frame++
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) stopRecording() {
	if err := m.saveGIF(); err != nil {
		m.log.Error().Err(err).Str("path", m.opts.GIFPath).Msg("gif not saved")
		m.notice = "gif failed: " + err.Error()
	} else {
		m.log.Info().Int("frames", len(m.frames)).Str("path", m.opts.GIFPath).Msg("gif saved")
		m.notice = "saved " + m.opts.GIFPath
	}
	m.recording = false
	m.frames = nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.pv.Clear()

	snap := m.eng.Snapshot()
	layout := m.builder.Build(snap, m.eng.ChamberBounds(), m.eng.FlashAlpha())
	proj := NewProjector(layout.World, width*2, height*4)
	DrawScene(m.canvas, proj, layout, m.eng.Particles(), CurrentTheme)
	if m.labels {
		DrawAnnotations(m.canvas, proj, layout, CurrentTheme)
	}

	vlo, vhi := m.eng.VolumeRange()
	plo, phi := m.eng.PressureRange()
	axes := analysis.PVAxes{VMin: vlo, VMax: vhi, PMin: plo, PMax: phi}
	DrawPV(m.pv, axes, m.eng.History(), m.eng.CurrentSample(), CurrentTheme)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	th := CurrentTheme
	st := NewStyles(th)
	snap := m.eng.Snapshot()
	cfg := m.eng.Config()

	var s strings.Builder
	s.WriteString(GradientText("FOUR-STROKE ENGINE", th.Primary, th.Secondary) + "\n\n")

	status := st.Running.Render(Spinner(m.frame) + " RUNNING")
	if snap.Paused {
		status = st.Paused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + st.Recording.Render(fmt.Sprintf("● REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n\n")

	s.WriteString(st.Stroke(snap.Stroke).Render(strings.ToUpper(snap.Stroke.String())) + "\n")
	s.WriteString(st.Muted.Render(snap.Stroke.Description()) + "\n\n")

	rpmFrac := analysis.SliderFraction(snap.RPM, cfg.Speed.Min, cfg.Speed.Max)
	plo, phi := m.eng.PressureRange()
	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + value + "\n")
	}
	row("Angle", st.Value.Render(fmt.Sprintf("%6.1f°", snap.Angle)))
	row("RPM", st.Value.Render(fmt.Sprintf("%6.0f ", snap.RPM))+st.Gauge(rpmFrac, 16))
	row("Volume", st.Value.Render(fmt.Sprintf("%6.1f", snap.Volume)))
	row("Pressure", st.Value.Render(fmt.Sprintf("%6.2f ", snap.Pressure))+st.Gauge((snap.Pressure-plo)/(phi-plo), 16))
	row("Valves", st.Valves(snap.Valves))
	row("Cycles", st.Value.Render(fmt.Sprintf("%d", snap.Cycles)))
	row("Ignitions", st.Value.Render(fmt.Sprintf("%d", snap.Ignitions)))
	if spark := st.Spark(snap.SparkFiring); spark != "" {
		s.WriteString(spark + "\n")
	}

	hist := m.eng.History()
	if len(hist) > 1 {
		pressures := make([]float64, len(hist))
		volumes := make([]float64, len(hist))
		for i, h := range hist {
			pressures[i] = h.Pressure
			volumes[i] = h.Volume
		}
		chart := asciigraph.Plot(pressures, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Pressure"))
		s.WriteString(graphStyle.Render(chart) + "\n")
		row("Volume", st.Trace(volumes, 30))
	}

	s.WriteString("\n" + st.Muted.Render("P-V DIAGRAM") + "\n")
	s.WriteString(m.pv.Render())

	s.WriteString("\n" + st.Rule(40) + "\n")
	if m.notice != "" {
		s.WriteString(st.Muted.Render(m.notice) + "\n")
	}
	s.WriteString(st.Hint.Render("SP:Pause S:Step N:Next R:Reset Q:Quit\n+/-:RPM [ ]:RPM±100 L:Labels T:" + th.Name + " G:Record ?:Help"))

	canvasView := canvasStyle.Render(m.canvas.Render())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return st.Panel.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `KEYBOARD SHORTCUTS

  Space    - Pause/Resume engine
  S / →    - Step one increment (paused)
  N        - Jump to next stroke (paused)
  R        - Reset engine
  + / -    - RPM ±10
  ] / [    - RPM ±100
  L        - Toggle part labels
  G        - Toggle GIF recording
  T        - Cycle themes
  ?        - Toggle this help
  Q        - Quit`
