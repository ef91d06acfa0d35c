package editor

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/tincture/doc"
	"github.com/iw2rmb/tincture/overlay"
	"github.com/iw2rmb/tincture/resize"
)

const defaultWidth = 80

type (
	frameMsg    struct{}
	autosaveMsg struct{ seq int }
)

// Model is a Bubble Tea component that renders and edits a document.
type Model struct {
	cfg    Config
	style  Style
	ed     *Editor
	surf   *surface
	frames *resize.ManualFrames
	drag   *dragStyle

	focused  bool
	viewport viewport.Model

	mouseDown   bool
	mouseAnchor doc.Pos

	frameTicking bool
	lastVersion  uint64
	saveSeq      int
	status       string
}

// NewModel returns a focused model editing cfg.Content. The model installs
// its own surface, frame scheduler and drag style; those Config fields are
// ignored.
func NewModel(cfg Config) Model {
	cfg.Display = cfg.Display.withDefaults()
	if cfg.HandleSize <= 0 {
		// Cells are much taller than handles; grab anywhere in the
		// neighbouring cells.
		cfg.HandleSize = math.Max(overlay.DefaultHandleSize, 2*cfg.Display.CellHeight)
	}
	if len(cfg.KeyMap.Enter.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}

	style := DefaultStyle()
	if cfg.Style != nil {
		style = *cfg.Style
	}

	surf := &surface{display: cfg.Display, imageSize: cfg.ImageSize, width: defaultWidth}
	frames := &resize.ManualFrames{}
	drag := &dragStyle{}

	edCfg := cfg
	edCfg.Surface = surf
	edCfg.Frames = frames
	edCfg.Suppressor = drag
	ed := New(edCfg)
	surf.ed = ed
	ed.Refresh()

	m := Model{
		cfg:      cfg,
		style:    style,
		ed:       ed,
		surf:     surf,
		frames:   frames,
		drag:     drag,
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	m.lastVersion = ed.Version()
	m.rebuildContent()
	return m
}

// Editor returns the headless editor behind the model.
func (m Model) Editor() *Editor { return m.ed }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	width = max(width, 0)
	height = max(height, 0)
	if !m.cfg.Display.HideStatus && height > 0 {
		height--
	}
	m.viewport.Width = width
	m.viewport.Height = height
	if width > 0 {
		m.surf.width = width
	}
	m.ed.Refresh()
	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.ed.CancelDrag()
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

// Destroy tears down the surface and the editor. A drag in progress is
// discarded.
func (m Model) Destroy() Model {
	m.surf.destroyed = true
	m.ed.Destroy()
	m.rebuildContent()
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		m, cmd = m.updateKey(msg)
	case tea.MouseMsg:
		m, cmd = m.updateMouse(msg)
	case frameMsg:
		m.frameTicking = false
		m.frames.Flush()
	case autosaveMsg:
		if msg.seq == m.saveSeq {
			m.save()
		}
	}
	m.rebuildContent()
	if _, ok := msg.(tea.KeyMsg); ok {
		m.followCursor()
	}
	return m, tea.Batch(cmd, m.scheduleFrame(), m.scheduleAutosave())
}

func (m Model) View() string {
	if m.cfg.Display.HideStatus {
		return m.viewport.View()
	}
	return m.viewport.View() + "\n" + m.style.Status.Render(m.statusLine())
}

func (m *Model) scheduleFrame() tea.Cmd {
	if m.frameTicking || m.frames.Pending() == 0 {
		return nil
	}
	m.frameTicking = true
	return tea.Tick(m.cfg.Display.FrameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) scheduleAutosave() tea.Cmd {
	v := m.ed.Version()
	if v == m.lastVersion {
		return nil
	}
	m.lastVersion = v
	m.status = "modified"
	if m.cfg.AutosaveDelay <= 0 || m.cfg.OnSave == nil {
		return nil
	}
	m.saveSeq++
	seq := m.saveSeq
	return tea.Tick(m.cfg.AutosaveDelay, func(time.Time) tea.Msg { return autosaveMsg{seq: seq} })
}

func (m *Model) save() {
	if m.cfg.OnSave == nil {
		return
	}
	if err := m.cfg.OnSave(m.ed.HTML()); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved"
}

func (m *Model) rebuildContent() {
	st := m.ed.State()
	box := m.ed.ImageBox()
	opts := renderOptions{style: m.style, focused: m.focused}
	if box.Visible {
		opts.sizeLabel = overlay.SizeLabel(box)
		if _, size, ok := m.ed.Preview(); ok {
			opts.sizeLabel = overlay.SizeLabel(overlay.Box{Rect: overlay.Rect{Width: float64(size.Width), Height: size.Height}})
		}
	}
	lines := renderLayout(m.surf.layout(), st, opts)
	if img, _, ok := st.SelectedImage(); ok && box.Visible && m.focused {
		m.placeToolbar(lines, box, toolbarLine(m.style, box, img))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// placeToolbar overwrites the line where the image toolbar floats.
func (m *Model) placeToolbar(lines []string, box overlay.Box, toolbar string) {
	d := m.cfg.Display
	toolbar = ansi.Truncate(toolbar, m.surf.width, "…")
	w := float64(ansi.StringWidth(toolbar))
	x, y, below := overlay.ToolbarPosition(box, float64(m.surf.width)*d.CellWidth,
		overlay.ToolbarSize{Width: w * d.CellWidth, Height: d.CellHeight})
	row := int(math.Ceil(y / d.CellHeight))
	if below {
		row = int(math.Floor(y / d.CellHeight))
	}
	if row < 0 || row >= len(lines) {
		return
	}
	lines[row] = strings.Repeat(" ", max(int(x/d.CellWidth), 0)) + toolbar
}

func (m *Model) followCursor() {
	h := m.viewport.Height
	if h <= 0 {
		return
	}
	_, row, ok := m.surf.layout().locate(m.ed.State().Selection.Head)
	if !ok {
		return
	}
	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}

func (m Model) statusLine() string {
	if id, size, ok := m.ed.Preview(); ok && id != "" {
		return m.drag.cursor + " " + overlay.SizeLabel(overlay.Box{Rect: overlay.Rect{Width: float64(size.Width), Height: size.Height}})
	}
	if m.drag.cursor != "" {
		return m.drag.cursor
	}
	parts := []string{m.ed.State().Selection.String()}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}
