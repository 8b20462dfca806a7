package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/wsx/internal/formatter"
	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TaskListView ViewState = iota
	TaskView
)

// dragPane is the half of a matching board that has the cursor.
type dragPane int

const (
	trayPane dragPane = iota
	targetPane
)

const statusTTL = 4 * time.Second

// Options configures a [Model].
type Options struct {
	Worksheet     *models.Worksheet
	Store         tasks.Store
	Recorder      tasks.Recorder
	Key           string
	ReplayAnswers bool
	Autosave      bool
	Palette       *Palette
	Logger        *log.Logger
	// ExportDir receives reports written with ctrl+e. Defaults to the working directory.
	ExportDir string
}

// Model represents the TUI application state.
//
// The engine is only touched from Update, which bubbletea runs on a single goroutine.
type Model struct {
	view      ViewState
	worksheet *models.Worksheet
	engine    *tasks.Engine
	page      *tasks.Page
	palette   *Palette
	logger    *log.Logger
	exportDir string

	width     int
	height    int
	taskList  list.Model
	listStale bool
	current   int
	cursor    int
	pane      dragPane
	blank     textinput.Model
	answer    textarea.Model
	bar       progress.Model
	help      help.Model
	keys      keyMap

	status      string
	statusStyle lipgloss.Style
	statusID    int
}

// NewModel lays out the worksheet, restores stored progress and returns the model ready to run.
func NewModel(opts Options) *Model {
	if opts.Palette == nil {
		opts.Palette = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	ws := opts.Worksheet
	m := &Model{
		view:      TaskListView,
		worksheet: ws,
		page:      tasks.NewPage(ws.Tasks),
		palette:   opts.Palette,
		logger:    opts.Logger,
		exportDir: opts.ExportDir,
		help:      help.New(),
		keys:      newKeyMap(),
	}

	m.engine = tasks.NewEngine(tasks.EngineOpts{
		Surfaces:      m.page,
		Store:         opts.Store,
		Recorder:      opts.Recorder,
		Refresh:       func() { m.listStale = true },
		Key:           opts.Key,
		ReplayAnswers: opts.ReplayAnswers,
		Autosave:      opts.Autosave,
		Logger:        opts.Logger,
	})
	m.engine.Load(ws.Tasks)

	m.blank = textinput.New()
	m.blank.Placeholder = "Type your answer"
	m.blank.CharLimit = 200

	m.answer = textarea.New()
	m.answer.Placeholder = "Write a few sentences"
	m.answer.ShowLineNumbers = false

	m.bar = progress.New(progress.WithGradient(m.palette.accent, m.palette.success), progress.WithoutPercentage())

	if m.engine.Restore() {
		m.status = fmt.Sprintf("Restored progress: %d of %d tasks complete", m.engine.CompletedCount(), len(ws.Tasks))
		m.statusStyle = m.palette.help
	}

	m.taskList = list.New(taskItems(ws.Tasks, m.page), list.NewDefaultDelegate(), 0, 0)
	m.taskList.Title = displayTitle(ws)
	m.taskList.SetShowHelp(false)
	return m
}

// Engine exposes the engine driving this model.
func (m *Model) Engine() *tasks.Engine { return m.engine }

// Page exposes the surfaces rendered by this model.
func (m *Model) Page() *tasks.Page { return m.page }

// State returns the active view.
func (m *Model) State() ViewState { return m.view }

// Init schedules expiry of the restore notice, if any.
func (m *Model) Init() tea.Cmd {
	if m.status == "" {
		return nil
	}
	m.statusID++
	return expireStatus(m.statusID)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.taskList.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = min(msg.Width-4, 60)
		m.blank.Width = min(msg.Width-8, 60)
		m.answer.SetWidth(min(msg.Width-6, 80))
		m.answer.SetHeight(5)
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgStatusExpired:
			if id, ok := msg.data.(int); ok && id == m.statusID {
				m.status = ""
			}
		case MsgReportExported:
			data := msg.data.(struct {
				path string
				err  error
			})
			if data.err != nil {
				m.logger.Error("failed to export report", "error", data.err)
				cmds = append(cmds, m.setStatus(fmt.Sprintf("Export failed: %v", data.err), m.palette.err))
			} else {
				m.logger.Info("report exported", "path", data.path)
				cmds = append(cmds, m.setStatus("Report written to "+data.path, m.palette.ok))
			}
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		var cmd tea.Cmd
		var model tea.Model
		switch m.view {
		case TaskListView:
			model, cmd = m.handleListKeys(msg)
		case TaskView:
			model, cmd = m.handleTaskKeys(msg)
		}
		cmds = append(cmds, cmd, m.syncList())
		return model, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	switch m.view {
	case TaskListView:
		m.taskList, cmd = m.taskList.Update(msg)
	case TaskView:
		cmd = m.updateInput(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")

	switch m.view {
	case TaskListView:
		b.WriteString(m.taskList.View())
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.export, m.keys.quit}))
	case TaskView:
		b.WriteString(m.renderTask())
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.statusStyle.Render(m.status))
	}
	return b.String()
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.taskList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.taskList.SelectedItem().(taskItem); ok {
			return m, m.openTask(item.position - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.export):
		return m, m.exportReport()
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task := m.currentTask()

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.check):
		m.engine.Check(task.ID)
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.engine.Reset(task.ID)
		m.syncInput(task)
		return m, m.setStatus("Task reset", m.palette.help)
	case key.Matches(msg, m.keys.export):
		return m, m.exportReport()
	case key.Matches(msg, m.keys.back):
		if board := m.page.Board(task.ID); board != nil {
			if _, dragging := board.Dragging(); dragging {
				m.cancelDrag(board)
				return m, nil
			}
		}
		m.closeTask()
		return m, nil
	}

	switch task.Type {
	case models.FillBlank:
		if key.Matches(msg, m.keys.enter) {
			m.engine.Check(task.ID)
			return m, nil
		}
		return m, m.updateInput(msg)
	case models.ShortAnswer:
		return m, m.updateInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch task.Type {
	case models.MultipleChoice:
		m.handleChoiceKeys(task, msg)
	case models.DragDrop:
		m.handleBoardKeys(task, msg)
	}
	return m, nil
}

func (m *Model) handleChoiceKeys(task models.Task, msg tea.KeyMsg) {
	n := optionCount(task)
	choice := m.page.Choice(task.ID)

	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.cursor = min(m.cursor+1, n-1)
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.pick):
		choice.Select(m.cursor)
		m.engine.InputChanged(task.ID)
	default:
		if r := msg.String(); len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
			if i := int(r[0] - '1'); i < n {
				m.cursor = i
				choice.Select(i)
				m.engine.InputChanged(task.ID)
			}
		}
	}
}

func (m *Model) handleBoardKeys(task models.Task, msg tea.KeyMsg) {
	board := m.page.Board(task.ID)
	if board == nil {
		return
	}
	targets := board.Targets()
	_, dragging := board.Dragging()

	switch {
	case key.Matches(msg, m.keys.pane):
		if m.pane == trayPane {
			m.pane, m.cursor = targetPane, 0
			if dragging && len(targets) > 0 {
				board.DragEnter(targets[0])
			}
		} else {
			if dragging {
				board.DragLeave(targets[m.cursor])
			}
			m.pane, m.cursor = trayPane, 0
		}
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		delta := 1
		if key.Matches(msg, m.keys.up) {
			delta = -1
		}
		if m.pane == trayPane {
			m.cursor = clamp(m.cursor+delta, len(board.Tray()))
			return
		}
		next := clamp(m.cursor+delta, len(targets))
		if dragging && next != m.cursor {
			board.DragLeave(targets[m.cursor])
			board.DragEnter(targets[next])
		}
		m.cursor = next
	case key.Matches(msg, m.keys.pick):
		if m.pane == trayPane {
			tray := board.Tray()
			if m.cursor < len(tray) && board.DragStart(tray[m.cursor]) && len(targets) > 0 {
				m.pane, m.cursor = targetPane, 0
				board.DragEnter(targets[0])
			}
			return
		}
		if item, ok := board.Occupant(targets[m.cursor]); ok {
			board.DragStart(item)
			board.DragEnter(targets[m.cursor])
		}
	case key.Matches(msg, m.keys.enter):
		if m.pane != targetPane || !dragging {
			return
		}
		if board.Drop(targets[m.cursor]) {
			m.engine.InputChanged(task.ID)
		}
	}
}

func (m *Model) cancelDrag(board *tasks.Board) {
	if m.pane == targetPane {
		if targets := board.Targets(); m.cursor < len(targets) {
			board.DragLeave(targets[m.cursor])
		}
	}
	board.DragEnd()
}

// updateInput forwards msg to the focused text widget and copies its value to the page.
func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	task := m.currentTask()
	text := m.page.Text(task.ID)
	if text == nil {
		return nil
	}

	var cmd tea.Cmd
	var value string
	switch task.Type {
	case models.FillBlank:
		m.blank, cmd = m.blank.Update(msg)
		value = m.blank.Value()
	case models.ShortAnswer:
		m.answer, cmd = m.answer.Update(msg)
		value = m.answer.Value()
	default:
		return nil
	}

	if value != text.Value() {
		text.SetValue(value)
		m.engine.InputChanged(task.ID)
	}
	return cmd
}

// syncInput loads the page state of task into the widgets.
func (m *Model) syncInput(task models.Task) {
	m.cursor, m.pane = 0, trayPane
	switch task.Type {
	case models.MultipleChoice:
		if i, ok := m.page.Choice(task.ID).Selected(); ok {
			m.cursor = i
		}
	case models.FillBlank:
		m.blank.SetValue(m.page.Text(task.ID).Value())
		m.blank.CursorEnd()
	case models.ShortAnswer:
		m.answer.SetValue(m.page.Text(task.ID).Value())
	}
}

func (m *Model) openTask(i int) tea.Cmd {
	ts := m.engine.Tasks()
	if i < 0 || i >= len(ts) {
		return nil
	}
	m.current = i
	m.view = TaskView
	task := ts[i]
	m.syncInput(task)

	switch task.Type {
	case models.FillBlank:
		return m.blank.Focus()
	case models.ShortAnswer:
		return m.answer.Focus()
	}
	return nil
}

func (m *Model) closeTask() {
	task := m.currentTask()
	if board := m.page.Board(task.ID); board != nil {
		m.cancelDrag(board)
	}
	m.blank.Blur()
	m.answer.Blur()
	m.view = TaskListView
	m.taskList.Select(m.current)
}

func (m *Model) currentTask() models.Task {
	ts := m.engine.Tasks()
	if m.current < len(ts) {
		return ts[m.current]
	}
	return models.Task{}
}

// syncList refreshes list markers after the engine rendered feedback.
func (m *Model) syncList() tea.Cmd {
	if !m.listStale {
		return nil
	}
	m.listStale = false
	return m.taskList.SetItems(taskItems(m.engine.Tasks(), m.page))
}

func (m *Model) setStatus(text string, style lipgloss.Style) tea.Cmd {
	m.status = text
	m.statusStyle = style
	m.statusID++
	return expireStatus(m.statusID)
}

func expireStatus(id int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg(id)
	})
}

// exportReport snapshots the report now and writes it in the background.
func (m *Model) exportReport() tea.Cmd {
	report := m.engine.Report(displayTitle(m.worksheet))
	path := filepath.Join(m.exportDir, formatter.DefaultFilename(report, formatter.FormatMarkdown))
	return func() tea.Msg {
		written, err := formatter.WriteExport(report, formatter.FormatMarkdown, path)
		return reportExportedMsg(written, err)
	}
}

func (m *Model) renderProgress() string {
	title := m.palette.title.Render(displayTitle(m.worksheet))
	count := fmt.Sprintf(" %d/%d complete (%s)", m.page.CompletedCount(), len(m.worksheet.Tasks), formatter.FormatPercentage(m.page.Percentage()))
	return fmt.Sprintf("%s\n%s%s", title, m.bar.ViewAs(m.page.Percentage()/100), m.palette.help.Render(count))
}

func (m *Model) renderTask() string {
	task := m.currentTask()
	var b strings.Builder

	header := fmt.Sprintf("Task %d of %d • %s", m.current+1, len(m.worksheet.Tasks), task.Type.Label())
	if marker := m.page.MarkerOf(task.ID); marker != tasks.MarkerNone {
		header += " " + markerIcon(marker)
	}
	b.WriteString(m.palette.selected.Render(header))
	b.WriteString("\n\n")
	if task.Question != "" {
		b.WriteString(task.Question)
		b.WriteString("\n\n")
	}

	switch task.Type {
	case models.MultipleChoice:
		b.WriteString(m.renderChoices(task))
	case models.FillBlank:
		b.WriteString(m.blank.View())
	case models.ShortAnswer:
		b.WriteString(m.answer.View())
		n := utf8.RuneCountInString(strings.TrimSpace(m.answer.Value()))
		b.WriteString("\n")
		b.WriteString(m.palette.help.Render(fmt.Sprintf("%d characters", n)))
	case models.DragDrop:
		b.WriteString(m.renderBoard(task))
	}

	if fb, ok := m.page.FeedbackOf(task.ID); ok {
		style := m.palette.err
		switch fb.Kind {
		case tasks.FeedbackCorrect:
			style = m.palette.ok
		case tasks.FeedbackIncorrect:
			style = m.palette.warn
		}
		b.WriteString("\n\n")
		b.WriteString(m.palette.card.Render(style.Render(fb.Heading) + "\n" + fb.Message))
	}
	return b.String()
}

func (m *Model) renderChoices(task models.Task) string {
	data, _ := task.Data.(models.MultipleChoiceData)
	selected, hasSelection := m.page.Choice(task.ID).Selected()

	if len(data.Options) == 0 {
		if hasSelection {
			return fmt.Sprintf("Selected option %d (press 1-9 to change)", selected+1)
		}
		return m.palette.help.Render("Press 1-9 to choose an option")
	}

	var lines []string
	for i, opt := range data.Options {
		radio := "( )"
		if hasSelection && selected == i {
			radio = "(•)"
		}
		line := fmt.Sprintf("%s %d. %s", radio, i+1, opt)
		if i == m.cursor {
			line = m.palette.selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBoard(task models.Task) string {
	board := m.page.Board(task.ID)
	dragged, dragging := board.Dragging()

	var tray []string
	for i, item := range board.Tray() {
		label := item
		if dragging && item == dragged {
			label += " ✋"
		}
		if m.pane == trayPane && i == m.cursor {
			label = m.palette.selected.Render("> " + label)
		} else {
			label = "  " + label
		}
		tray = append(tray, label)
	}
	if len(tray) == 0 {
		tray = append(tray, m.palette.help.Render("  (empty)"))
	}

	var targets []string
	for i, target := range board.Targets() {
		occupant, ok := board.Occupant(target)
		if !ok {
			occupant = "_"
		} else if dragging && occupant == dragged {
			occupant += " ✋"
		}
		style := m.palette.target
		if board.Highlighted(target) {
			style = m.palette.hover
		}
		prefix := "  "
		if m.pane == targetPane && i == m.cursor {
			prefix = "> "
		}
		targets = append(targets, prefix+style.Render(target+" ← "+occupant))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render("Items\n"+strings.Join(tray, "\n")),
		"Targets\n"+strings.Join(targets, "\n"),
	)
}

func displayTitle(ws *models.Worksheet) string {
	if ws.Title == "" {
		return "Worksheet"
	}
	return ws.Title
}

func optionCount(task models.Task) int {
	if data, ok := task.Data.(models.MultipleChoiceData); ok && len(data.Options) > 0 {
		return len(data.Options)
	}
	return 9
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}
