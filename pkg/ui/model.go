// Package ui is the terminal shell around the chart: a task list and a
// scrollable chart drawn in cells, driven by mouse and keyboard through the
// store, viewport and interaction controllers.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/config"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/interaction"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/store"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/viewport"
)

const (
	// doubleClickWindow is the longest gap between two clicks on the same
	// bar that still counts as a double click.
	doubleClickWindow = 400 * time.Millisecond

	// commitTimeout bounds one call into the task owner.
	commitTimeout = 10 * time.Second

	// cellClickThreshold makes any move of one cell or more a drag.
	cellClickThreshold = 0.5
)

// Persister stores tasks edited, added or folded in the shell. Drag commits
// go through the interaction handlers instead.
type Persister interface {
	Save(ctx context.Context, t model.Task) error
}

// Options configures a Model.
type Options struct {
	Config    config.Config
	Tasks     []model.Task
	Handlers  interaction.Handlers
	Persister Persister
	Logger    *log.Logger
	Now       func() time.Time
	Keys      *KeyMap
}

// ReloadMsg replaces the task collection, for example after the task file
// changed on disk. Any drag in progress is cancelled first.
type ReloadMsg struct {
	Tasks []model.Task
}

// commitResolvedMsg carries the owner's answer back to the event loop.
type commitResolvedMsg struct {
	seq    uint64
	kind   interaction.CommitKind
	taskID string
	err    error
}

// savedMsg reports a Persister write.
type savedMsg struct {
	taskID string
	err    error
}

type clickRecord struct {
	taskID string
	at     time.Time
}

// Model is the bubbletea model of the chart shell.
type Model struct {
	cfg       config.Config
	keys      KeyMap
	theme     Theme
	logger    *log.Logger
	now       func() time.Time
	persister Persister
	owner     interaction.Handlers

	store   *store.Store
	ctl     *interaction.Controller
	vp      *viewport.Controller
	wheel   *wheelTarget
	capture *pointerCapture
	list    *surface
	chart   *surface

	scene       layout.Scene
	granularity timescale.Granularity

	width, height int
	active        pane
	panes         panes

	lastClick     clickRecord
	scrollbarDrag bool
	cmds          []tea.Cmd
	status        string
	statusErr     bool

	form    *EditFormModel
	detail  DetailModel
	search  SearchModel
	help    help.Model
	overlay HelpOverlayModel
}

// New wires the store, controllers and surfaces for opts.Tasks.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	theme := NewTheme(opts.Config.Colors)

	m := &Model{
		cfg:         opts.Config,
		keys:        keys,
		theme:       theme,
		logger:      logger,
		now:         now,
		persister:   opts.Persister,
		owner:       opts.Handlers,
		granularity: opts.Config.View.Granularity,
		wheel:       &wheelTarget{},
		capture:     &pointerCapture{},
		list:        &surface{},
		chart:       &surface{},
		detail:      NewDetailModel(theme),
		search:      NewSearchModel(),
		help:        help.New(),
		overlay:     NewHelpOverlayModel(theme, keys),
	}
	if !m.granularity.IsValid() {
		m.granularity = timescale.Day
	}

	m.store = store.New(store.State{Tasks: opts.Tasks}, store.WithLogger(logger))
	m.scene = layout.Build(m.store.State().Tasks, m.layoutOptions(nil), CellMeasurer)

	iopts := opts.Config.InteractionOptions()
	iopts.ClickThreshold = cellClickThreshold
	m.ctl = interaction.New(m.scene.Mapper, m.store.State().Tasks,
		interaction.WithLogger(logger),
		interaction.WithOptions(iopts),
		interaction.WithHandlers(m.handlers()),
		interaction.WithChart(chartSink{store: m.store}),
		interaction.WithCapturer(m.capture),
	)

	m.vp = viewport.New(viewport.WithLogger(logger), viewport.WithWheelTarget(m.wheel))
	m.list.onScroll = m.vp.OnNativeScrollY
	m.chart.onScroll = m.vp.OnNativeScrollX
	m.vp.OnChange(func(x, y float64) {
		m.list.scrollTo(y)
		m.chart.scrollTo(x)
	})

	m.store.Subscribe(func(store.Action, store.State) { m.rebuild() })
	return m
}

// handlers wraps the owner's callbacks with the shell's own reactions.
func (m *Model) handlers() interaction.Handlers {
	h := m.owner
	h.Select = func(t model.Task, selected bool) {
		if m.owner.Select != nil {
			m.owner.Select(t, selected)
		}
		switch {
		case selected:
			m.store.Dispatch(store.Select{TaskID: t.ID})
		case m.ctl.Selected() == "":
			m.store.Dispatch(store.Select{})
		}
	}
	h.DoubleClick = func(t model.Task) {
		if m.owner.DoubleClick != nil {
			m.owner.DoubleClick(t)
		}
		m.openForm(t)
	}
	return h
}

// layoutOptions returns the scene options in cell units. Non-nil ticks pin
// the axis.
func (m *Model) layoutOptions(ticks []time.Time) layout.Options {
	o := m.cfg.LayoutOptions()
	o.Granularity = m.granularity
	o.Metrics = timescale.Metrics{
		ColumnWidth: float64(max(m.cfg.TUI.ColumnCells, 1)),
		RowHeight:   float64(max(m.cfg.TUI.RowCells, 1)),
		BarFill:     50,
		HandleWidth: 1,
	}
	o.HeaderHeight = headerLines
	o.ArrowIndent = arrowIndentCells
	o.Now = m.now()
	o.Ticks = ticks
	return o
}

// rebuild lays the store state out again. While a drag is held the axis
// stays pinned and the controller keeps the mapping it started with.
func (m *Model) rebuild() {
	var ticks []time.Time
	_, dragging := m.ctl.Session()
	if dragging {
		ticks = m.scene.Mapper.Ticks()
	}
	st := m.store.State()
	m.scene = layout.Build(st.Tasks, m.layoutOptions(ticks), CellMeasurer)
	if !dragging {
		m.granularity = m.scene.Scale.Granularity
		m.ctl.SetScene(m.scene.Mapper, st.Tasks)
	}
	m.updateGeometry()
	m.syncDetail()
}

func (m *Model) updateGeometry() {
	if m.width == 0 {
		return
	}
	vw := m.panes.chartW
	if !m.panes.showChart() {
		vw = max(m.width-scrollbarWidth, 0)
	}
	metrics := m.scene.Mapper.Metrics()
	m.vp.SetGeometry(viewport.Geometry{
		ContentWidth:   m.scene.Width,
		ContentHeight:  m.scene.Height,
		ViewportWidth:  float64(vw),
		ViewportHeight: float64(m.panes.bodyH),
		ColumnWidth:    metrics.ColumnWidth,
		RowHeight:      metrics.RowHeight,
	})
}

// scroll returns the scroll offsets in whole cells. Drawing and hit testing
// both use these.
func (m *Model) scroll() (sx, sy int) {
	return int(math.Round(m.vp.ScrollX())), int(math.Round(m.vp.ScrollY()))
}

// Selected returns the selected task id.
func (m *Model) Selected() string { return m.store.State().SelectedID }

// Tasks returns the current task collection.
func (m *Model) Tasks() []model.Task { return m.store.State().Tasks }

// Scene returns the current layout.
func (m *Model) Scene() layout.Scene { return m.scene }

// Close detaches the wheel handler and cancels any drag.
func (m *Model) Close() {
	m.ctl.Close()
	m.vp.Close()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("gv")
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case ReloadMsg:
		m.ctl.Cancel()
		m.store.Dispatch(store.Init{Tasks: msg.Tasks})
		m.setStatus(fmt.Sprintf("reloaded %d tasks", len(msg.Tasks)), false)
		m.logger.Info("tasks reloaded", "count", len(msg.Tasks))

	case commitResolvedMsg:
		m.resolve(msg)

	case savedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("save %s failed: %v", msg.taskID, msg.err), true)
			m.logger.Warn("save failed", "task", msg.taskID, "err", msg.err)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	default:
		if m.form != nil {
			cmd = m.updateForm(msg)
		}
	}
	return m, tea.Batch(append(m.drainCmds(), cmd)...)
}

func (m *Model) drainCmds() []tea.Cmd {
	cmds := m.cmds
	m.cmds = nil
	return cmds
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.panes = computePanes(w, h, m.cfg.TUI, m.active)
	m.help.Width = w
	m.overlay.SetSize(w, h)
	m.detail.SetSize(w, h)
	m.search.SetWidth(w)
	if m.form != nil {
		m.form.SetSize(w, h)
	}
	m.updateGeometry()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// ── commits ──────────────────────────────────────────────────────────────

// commitCmd runs the owner callback off the event loop.
func (m *Model) commitCmd(c *interaction.Commit) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		return commitResolvedMsg{seq: c.Seq, kind: c.Kind, taskID: c.Task.ID, err: ctl.Call(ctx, c)}
	}
}

func (m *Model) resolve(msg commitResolvedMsg) {
	err := m.ctl.Resolve(msg.seq, msg.err)
	switch {
	case errors.Is(err, interaction.ErrStaleCommit):
		m.logger.Debug("commit superseded", "seq", msg.seq, "task", msg.taskID)
	case err != nil:
		m.logger.Warn("resolve failed", "seq", msg.seq, "err", err)
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("%s rejected: %v", commitVerb(msg.kind), msg.err), true)
	default:
		m.setStatus(fmt.Sprintf("%s saved", commitVerb(msg.kind)), false)
	}
}

func commitVerb(k interaction.CommitKind) string {
	switch k {
	case interaction.KindDateChange:
		return "date change"
	case interaction.KindProgressChange:
		return "progress change"
	case interaction.KindDelete:
		return "delete"
	}
	return string(k)
}

func (m *Model) persistCmd(tasks ...model.Task) tea.Cmd {
	if m.persister == nil || len(tasks) == 0 {
		return nil
	}
	p := m.persister
	tasks = model.CloneTasks(tasks)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		for _, t := range tasks {
			if err := p.Save(ctx, t); err != nil {
				return savedMsg{taskID: t.ID, err: err}
			}
		}
		return savedMsg{taskID: tasks[0].ID}
	}
}

// ── mouse ────────────────────────────────────────────────────────────────

// chartPoint converts a screen cell to chart units at the cell's center.
func (m *Model) chartPoint(mx, my int) (x, y float64, line int) {
	sx, sy := m.scroll()
	line = my - (m.panes.bodyY + headerLines) + sy
	return float64(mx-m.panes.chartX+sx) + 0.5, float64(line) + 0.5, line
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.form != nil || m.overlay.IsVisible() || m.detail.IsVisible() {
		return
	}
	if tea.MouseEvent(msg).IsWheel() {
		m.handleWheel(msg)
		return
	}

	if m.capture.held {
		x, _, _ := m.chartPoint(msg.X, msg.Y)
		switch msg.Action {
		case tea.MouseActionMotion:
			if err := m.ctl.PointerMove(x); err == nil {
				m.showDrag()
			}
		case tea.MouseActionRelease:
			m.pointerUp(x)
		}
		return
	}

	if m.scrollbarDrag {
		switch msg.Action {
		case tea.MouseActionMotion:
			m.scrollbarTo(msg.Y)
		case tea.MouseActionRelease:
			m.scrollbarDrag = false
		}
		return
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	switch {
	case m.panes.onScrollbar(msg.X, msg.Y):
		m.scrollbarDrag = true
		m.scrollbarTo(msg.Y)
	case m.panes.inChart(msg.X, msg.Y):
		m.pointerDown(msg.X, msg.Y)
	case m.panes.inList(msg.X, msg.Y):
		_, y, _ := m.chartPoint(msg.X, msg.Y)
		if row, ok := m.scene.RowAt(y); ok {
			m.click(row.Task.ID)
		}
	}
}

func (m *Model) scrollbarTo(screenY int) {
	track := float64(m.panes.bodyH)
	_, size := m.vp.Thumb(track)
	pos := float64(screenY-(m.panes.bodyY+headerLines)) - size/2
	m.vp.ScrollbarTo(pos, track)
}

// pointerDown starts a bar gesture. The line under a bar only exposes the
// progress handle; anywhere else off a bar clears the selection.
func (m *Model) pointerDown(mx, my int) {
	x, y, line := m.chartPoint(mx, my)
	target, ok := interaction.HitTest(m.scene, x, y, m.scene.Mapper.Metrics().HandleWidth)
	if ok && target.Region != interaction.RegionProgressHandle {
		row, _ := m.scene.RowByID(target.TaskID)
		ok = barLine(row.Bar.Y) == line
	}
	if !ok {
		m.ctl.Select("")
		return
	}
	started, err := m.ctl.PointerDown(target, x)
	if err != nil {
		m.logger.Debug("pointer down ignored", "err", err)
		return
	}
	if started {
		m.showDrag()
	}
}

func (m *Model) pointerUp(x float64) {
	s, _ := m.ctl.Session()
	id := ""
	if s != nil {
		id = s.TaskID
	}
	commit, err := m.ctl.PointerUp(x)
	if err != nil {
		return
	}
	if commit != nil {
		m.lastClick = clickRecord{}
		m.cmds = append(m.cmds, m.commitCmd(commit))
		m.setStatus("saving…", false)
		return
	}
	if s != nil && s.ReadOnly && math.Abs(s.Delta()) >= cellClickThreshold {
		m.setStatus(fmt.Sprintf("%s is read only", s.Original.Name), true)
	} else {
		m.setStatus("", false)
	}
	m.doubleClickCheck(id)
}

// click selects a task from the list pane.
func (m *Model) click(id string) {
	m.ctl.Select(id)
	m.doubleClickCheck(id)
}

func (m *Model) doubleClickCheck(id string) {
	now := m.now()
	if id != "" && m.lastClick.taskID == id && now.Sub(m.lastClick.at) <= doubleClickWindow {
		m.lastClick = clickRecord{}
		m.ctl.DoubleClick(id)
		return
	}
	m.lastClick = clickRecord{taskID: id, at: now}
}

// showDrag puts the dragged task's current values in the status line.
func (m *Model) showDrag() {
	s, ok := m.ctl.Session()
	if !ok {
		return
	}
	t := s.Current
	switch s.Mode {
	case interaction.ModeProgress:
		m.setStatus(fmt.Sprintf("%s: %s", t.Name, strings.TrimSpace(formatPercent(t.Progress))), false)
	default:
		m.setStatus(fmt.Sprintf("%s: %s → %s", t.Name, t.Start.Format(formDateLayout), t.End.Format(formDateLayout)), false)
	}
}

func (m *Model) handleWheel(msg tea.MouseMsg) {
	if !m.panes.inChart(msg.X, msg.Y) && !m.panes.inList(msg.X, msg.Y) && !m.panes.onScrollbar(msg.X, msg.Y) {
		return
	}
	metrics := m.scene.Mapper.Metrics()
	var e viewport.WheelEvent
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		e.DeltaY = -metrics.RowHeight
	case tea.MouseButtonWheelDown:
		e.DeltaY = metrics.RowHeight
	case tea.MouseButtonWheelLeft:
		e.DeltaX = -metrics.ColumnWidth
	case tea.MouseButtonWheelRight:
		e.DeltaX = metrics.ColumnWidth
	}
	if msg.Shift && e.DeltaY != 0 {
		e.Shift = true
		e.DeltaY = math.Copysign(metrics.ColumnWidth, e.DeltaY)
	}
	if m.wheel.dispatch(e) {
		return
	}

	// Not subscribed: the surface under the pointer scrolls itself.
	switch {
	case e.Shift || e.DeltaX != 0:
		dx := e.DeltaX
		if dx == 0 {
			dx = e.DeltaY
		}
		m.chart.scrollTo(clampf(m.chart.offset+dx, 0, m.vp.MaxScrollX()))
	default:
		m.list.scrollTo(clampf(m.list.offset+e.DeltaY, 0, m.vp.MaxScrollY()))
	}
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ── keyboard ─────────────────────────────────────────────────────────────

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.form != nil:
		return m.updateForm(msg)
	case m.overlay.IsVisible():
		m.overlay, _ = m.overlay.Update(msg)
		return nil
	case m.detail.IsVisible():
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		if !m.detail.IsVisible() {
			m.store.Dispatch(store.SetMenu{Open: false})
		}
		return cmd
	case m.search.Active():
		return m.updateSearch(msg)
	}

	if _, dragging := m.ctl.Session(); dragging {
		if key.Matches(msg, m.keys.Cancel) {
			m.ctl.Cancel()
			m.setStatus("drag cancelled", false)
		}
		return nil
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.overlay.Show()
	case key.Matches(msg, k.Up):
		m.vp.OnKey(viewport.KeyUp)
	case key.Matches(msg, k.Down):
		m.vp.OnKey(viewport.KeyDown)
	case key.Matches(msg, k.Left):
		m.vp.OnKey(viewport.KeyLeft)
	case key.Matches(msg, k.Right):
		m.vp.OnKey(viewport.KeyRight)
	case key.Matches(msg, k.Next):
		m.moveSelection(1)
	case key.Matches(msg, k.Prev):
		m.moveSelection(-1)
	case key.Matches(msg, k.Today):
		m.scrollToToday()
	case key.Matches(msg, k.Coarser):
		m.setGranularity(m.granularity.Next())
	case key.Matches(msg, k.Finer):
		m.setGranularity(m.granularity.Prev())
	case key.Matches(msg, k.Add):
		return m.addTask(false)
	case key.Matches(msg, k.AddChild):
		return m.addTask(true)
	case key.Matches(msg, k.Delete):
		m.deleteSelected()
	case key.Matches(msg, k.Edit):
		if id := m.Selected(); id != "" {
			m.ctl.DoubleClick(id)
		}
	case key.Matches(msg, k.Collapse):
		return m.toggleCollapse()
	case key.Matches(msg, k.Detail):
		m.openDetail(m.Selected())
	case key.Matches(msg, k.Search):
		return m.search.Open()
	case key.Matches(msg, k.Copy):
		m.copySelected()
	case key.Matches(msg, k.SwitchPane):
		m.switchPane()
	case key.Matches(msg, k.Cancel):
		m.ctl.Select("")
	}
	return nil
}

// openDetail opens the side panel on task id.
func (m *Model) openDetail(id string) {
	t, ok := m.store.State().Task(id)
	if !ok {
		return
	}
	m.store.Dispatch(store.SetMenu{TaskID: id, Open: true})
	m.detail.Show(t, m.scene)
}

// syncDetail keeps the panel on the store's menu task. It closes when the
// task is deleted and otherwise shows the task's current fields.
func (m *Model) syncDetail() {
	st := m.store.State()
	if !st.MenuOpen {
		m.detail.Hide()
		return
	}
	if t, ok := st.Task(st.MenuTaskID); ok && m.detail.IsVisible() {
		m.detail.Refresh(t, m.scene)
	}
}

func (m *Model) selectedRow() int {
	id := m.Selected()
	for i, r := range m.scene.Rows {
		if r.Task.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) moveSelection(delta int) {
	n := len(m.scene.Rows)
	if n == 0 {
		return
	}
	i := m.selectedRow()
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = max(0, min(n-1, i+delta))
	}
	m.selectAndReveal(m.scene.Rows[i].Task.ID)
}

func (m *Model) selectAndReveal(id string) {
	m.ctl.Select(id)
	row, ok := m.scene.RowByID(id)
	if !ok {
		return
	}
	m.vp.RevealRow(row.Index)
	m.vp.RevealX(row.Bar.X)
}

func (m *Model) scrollToToday() {
	if m.scene.Today < 0 {
		m.setStatus("today is outside the chart", false)
		return
	}
	cw := m.scene.Mapper.Metrics().ColumnWidth
	x := float64(m.scene.Today)*cw - m.vp.Geometry().ViewportWidth/2
	m.vp.ScrollTo(x, m.vp.ScrollY())
}

// setGranularity relayouts at g and keeps the left edge on the same date.
func (m *Model) setGranularity(g timescale.Granularity) {
	if _, dragging := m.ctl.Session(); dragging || g == m.granularity {
		return
	}
	if !timescale.Fits(model.VisibleTasks(m.store.State().Tasks), g, m.now()) {
		m.setStatus(fmt.Sprintf("%s scale would exceed %d columns", g, timescale.MaxColumns), true)
		return
	}
	left := m.scene.Mapper.XToDate(m.vp.ScrollX())
	m.granularity = g
	m.rebuild()
	m.vp.ScrollTo(m.scene.Mapper.DateToX(left), m.vp.ScrollY())
	m.setStatus("scale: "+string(g), false)
}

func (m *Model) addTask(child bool) tea.Cmd {
	st := m.store.State()
	parent, hasParent := st.Task(st.SelectedID)
	if child && !hasParent {
		m.setStatus("select a parent task first", true)
		return nil
	}

	start := m.granularity.Truncate(m.now())
	if hasParent {
		start = parent.Start
	}
	t := model.Task{
		ID:       uuid.NewString(),
		Name:     "New task",
		Start:    start,
		End:      start.Add(24 * time.Hour),
		Type:     model.TypeTask,
		Progress: 0,
	}
	m.store.Dispatch(store.AddTask{Task: t})
	saved := []model.Task{t}
	if child {
		parent.Children = append(parent.Children, t.ID)
		parent.HideChildren = false
		m.store.Dispatch(store.ChangeTask{Task: parent})
		saved = append(saved, parent)
	}
	m.selectAndReveal(t.ID)
	if child {
		m.logger.Info("task added", "task", t.ID, "parent", parent.ID)
	} else {
		m.logger.Info("task added", "task", t.ID)
	}
	return m.persistCmd(saved...)
}

func (m *Model) deleteSelected() {
	id := m.Selected()
	if id == "" {
		return
	}
	commit, err := m.ctl.Delete(id)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.cmds = append(m.cmds, m.commitCmd(commit))
	m.setStatus("deleting…", false)
}

func (m *Model) toggleCollapse() tea.Cmd {
	t, ok := m.store.State().Task(m.Selected())
	if !ok || !t.HasChildren() {
		return nil
	}
	t.HideChildren = !t.HideChildren
	m.store.Dispatch(store.ChangeTask{Task: t})
	return m.persistCmd(t)
}

func (m *Model) copySelected() {
	id := m.Selected()
	if id == "" {
		return
	}
	if err := clipboard.WriteAll(id); err != nil {
		m.setStatus("clipboard: "+err.Error(), true)
		return
	}
	m.setStatus("copied "+id, false)
}

func (m *Model) switchPane() {
	if m.active == paneChart {
		m.active = paneList
	} else {
		m.active = paneChart
	}
	m.resize(m.width, m.height)
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter":
		m.search.Close()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if i := bestMatch(m.search.Query(), m.scene.Rows); i >= 0 {
		m.selectAndReveal(m.scene.Rows[i].Task.ID)
	}
	return cmd
}

// ── edit form ────────────────────────────────────────────────────────────

func (m *Model) openForm(t model.Task) {
	if m.form != nil {
		return
	}
	m.form = NewEditFormModel(t, m.theme)
	m.form.SetSize(m.width, m.height)
	m.cmds = append(m.cmds, m.form.Init())
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	cmd := m.form.Update(msg)
	if done := m.finishForm(); done != nil || m.form == nil {
		return done
	}
	return cmd
}

// finishForm closes a submitted or cancelled form. A submitted form becomes
// a ChangeTask and a save.
func (m *Model) finishForm() tea.Cmd {
	switch {
	case m.form.IsCancelled():
		m.form = nil
	case m.form.IsSubmitted():
		t, err := m.form.Result()
		m.form = nil
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.store.Dispatch(store.ChangeTask{Task: t})
		m.ctl.Select(t.ID)
		m.setStatus("updated "+t.Name, false)
		return m.persistCmd(t)
	}
	return nil
}

// ── view ─────────────────────────────────────────────────────────────────

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}
	switch {
	case m.overlay.IsVisible():
		return m.overlay.View()
	case m.form != nil:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	case m.detail.IsVisible():
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.detail.View())
	}

	var sections []string
	if m.panes.mode == layout.Tabbed {
		sections = append(sections, m.renderTabs())
	}
	sections = append(sections, m.renderBody(m.paint), m.renderStatus(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs() string {
	chart, list := m.theme.Tab, m.theme.Tab
	if m.active == paneChart {
		chart = m.theme.TabActive
	} else {
		list = m.theme.TabActive
	}
	return chart.Render("Chart") + " " + list.Render("Tasks")
}

func (m *Model) renderBody(paint func(*grid) string) string {
	p := m.panes
	sx, sy := m.scroll()
	sel := m.Selected()
	var cols []string

	if p.showList() {
		hdr := newGrid(p.listW, headerLines)
		drawListHeader(hdr)
		body := newGrid(p.listW, p.bodyH)
		drawList(body, m.scene, sy, sel)
		cols = append(cols, stack(paint(hdr), paint(body)))
		if p.showChart() {
			div := newGrid(1, headerLines+p.bodyH)
			for y := 0; y < div.h; y++ {
				div.set(0, y, '│', kindScrollTrack)
			}
			cols = append(cols, paint(div))
		}
	}
	if p.showChart() {
		hdr := newGrid(p.chartW, headerLines)
		drawHeader(hdr, m.scene, sx)
		body := newGrid(p.chartW, p.bodyH)
		drawChart(body, m.scene, sx, sy, sel)
		cols = append(cols, stack(paint(hdr), paint(body)))

		bar := newGrid(scrollbarWidth, p.bodyH)
		pos, size := m.vp.Thumb(float64(p.bodyH))
		drawScrollbar(bar, 0, pos, size)
		cols = append(cols, stack(strings.Repeat("\n", headerLines-1), paint(bar)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) paint(g *grid) string { return g.render(m.theme) }

// stack joins a header block and a body block that may be empty.
func stack(top, bottom string) string {
	if bottom == "" {
		return top
	}
	return top + "\n" + bottom
}

func (m *Model) renderStatus() string {
	if m.status != "" {
		style := m.theme.Status
		if m.statusErr {
			style = m.theme.Error
		}
		return style.Width(m.width).MaxHeight(1).Render(m.status)
	}

	parts := []string{string(m.granularity), fmt.Sprintf("%d tasks", len(m.scene.Rows))}
	if t, ok := m.store.State().Task(m.Selected()); ok {
		parts = append(parts, t.Name, RenderProgress(t.Progress))
	}
	if n := len(m.scene.Analysis.Conflicts); n > 0 {
		parts = append(parts, m.theme.Error.Render(fmt.Sprintf("%d conflicts", n)))
	}
	if n := m.ctl.Pending(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d saving", n))
	}
	return m.theme.Status.MaxHeight(1).Render(strings.Join(parts, " · "))
}

func (m *Model) renderFooter() string {
	if m.search.Active() {
		return m.search.View()
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
