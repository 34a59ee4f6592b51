package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/belajar/internal/chart"
	"github.com/faizmokh/belajar/internal/config"
	"github.com/faizmokh/belajar/internal/files"
	"github.com/faizmokh/belajar/internal/logbook"
	"github.com/faizmokh/belajar/internal/logging"
	"github.com/faizmokh/belajar/internal/transfer"
)

// Deps are the collaborators the dashboard drives.
type Deps struct {
	Store   *logbook.Store
	Manager *files.Manager
	Config  config.Config
	Logger  *slog.Logger
	Now     func() time.Time
}

// Model owns Bubble Tea state for the dashboard.
type Model struct {
	ctx     context.Context
	store   *logbook.Store
	manager *files.Manager
	cfg     config.Config
	logger  *slog.Logger
	now     func() time.Time

	sessions []logbook.Session
	selected int
	theme    logbook.Theme
	styles   chart.Styles
	width    int

	mode      mode
	form      []textinput.Model
	focus     int
	editingID string
	pathInput textinput.Model
	importing bool

	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
	modeConfirmClear
	modeImport
)

type importResultMsg struct {
	path   string
	result transfer.Result
	err    error
}

// NewModel seeds a Bubble Tea model from an already loaded store.
func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Config.ChartWidth == 0 {
		deps.Config = config.Default()
	}

	path := textinput.New()
	path.Prompt = "> "
	path.Placeholder = "~/Downloads/progress_data.csv"
	path.CharLimit = 512

	m := Model{
		ctx:       ctx,
		store:     deps.Store,
		manager:   deps.Manager,
		cfg:       deps.Config,
		logger:    deps.Logger,
		now:       deps.Now,
		form:      newForm(),
		pathInput: path,
		mode:      modeNormal,
	}
	m.applyTheme(deps.Store.Theme(ctx))
	m.refresh()
	if len(m.sessions) == 0 {
		m.statusLine = "No sessions yet. Press a to add one."
	} else {
		m.statusLine = fmt.Sprintf("Loaded %d %s.", len(m.sessions), chart.Plural(len(m.sessions), "session", "sessions"))
	}
	return m
}

// Init has nothing to load; the store is read before the program starts.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case importResultMsg:
		return m.handleImportResult(msg)
	default:
		return m.updateInputs(msg)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m.handleModeKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		if m.selected < len(m.sessions)-1 {
			m.selected++
			m.clearLines()
		}
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.clearLines()
		}
	case "a":
		return m.beginAdd()
	case "e":
		return m.beginEdit()
	case "d":
		if len(m.sessions) == 0 {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.clearLines()
	case "C":
		if len(m.sessions) == 0 {
			m.errorLine = ""
			m.statusLine = "No data to clear."
			return m, nil
		}
		m.mode = modeConfirmClear
		m.clearLines()
	case "i":
		return m.beginImport()
	case "x":
		return m.export(transfer.FormatJSON)
	case "X":
		return m.export(transfer.FormatCSV)
	case "t":
		return m.toggleTheme()
	case "r":
		return m.reload()
	}

	return m, nil
}

func (m Model) handleModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd, modeEdit:
		switch msg.Type {
		case tea.KeyEsc:
			return m.cancel("Cancelled.")
		case tea.KeyTab, tea.KeyDown:
			return m.focusField(m.focus + 1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m.focusField(m.focus - 1)
		case tea.KeyEnter:
			if m.focus < len(m.form)-1 {
				return m.focusField(m.focus + 1)
			}
			return m.submitForm()
		case tea.KeyCtrlS:
			return m.submitForm()
		}
		var cmd tea.Cmd
		m.form[m.focus], cmd = m.form[m.focus].Update(msg)
		return m, cmd
	case modeImport:
		switch msg.Type {
		case tea.KeyEsc:
			return m.cancel("Import cancelled.")
		case tea.KeyEnter:
			return m.submitImport()
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			return m.confirmDelete()
		case "n", "N", "esc":
			return m.cancel("Delete cancelled.")
		}
	case modeConfirmClear:
		switch msg.String() {
		case "y", "Y":
			return m.confirmClear()
		case "n", "N", "esc":
			return m.cancel("Clear cancelled.")
		}
	}
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeAdd, modeEdit:
		m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	case modeImport:
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

func (m Model) beginAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	m.editingID = ""
	m.form = newForm()
	m.form[fieldDate].SetValue(logbook.FormatDate(m.now()))
	m.form[fieldMinutes].SetValue(fmt.Sprint(m.cfg.DefaultMinutes))
	m.clearLines()
	return m.focusField(fieldSubject)
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	current, ok := m.current()
	if !ok {
		return m, nil
	}
	m.mode = modeEdit
	m.editingID = current.ID
	m.form = newForm()
	m.form[fieldDate].SetValue(current.Date)
	m.form[fieldSubject].SetValue(current.Subject)
	m.form[fieldMinutes].SetValue(fmt.Sprint(current.Duration))
	m.form[fieldNote].SetValue(current.Note)
	m.clearLines()
	return m.focusField(fieldSubject)
}

func (m Model) focusField(index int) (tea.Model, tea.Cmd) {
	n := len(m.form)
	index = (index%n + n) % n
	for i := range m.form {
		m.form[i].Blur()
	}
	m.focus = index
	return m, m.form[index].Focus()
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	session, err := sessionFromForm(m.form)
	if err != nil {
		m.errorLine = formError(err)
		return m, nil
	}

	var (
		saved  logbook.Session
		action string
	)
	if m.mode == modeEdit {
		saved, err = m.store.Replace(m.ctx, m.editingID, session)
		action = "Updated"
	} else {
		saved, err = m.store.Add(m.ctx, session)
		action = "Added"
	}
	if err != nil {
		m.errorLine = formError(err)
		return m, nil
	}

	m.mode = modeNormal
	m.editingID = ""
	m.refresh()
	m.selectID(saved.ID)
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("%s %s (%s).", action, saved.Subject, chart.FormatMinutes(saved.Duration))
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	current, ok := m.current()
	m.mode = modeNormal
	if !ok {
		return m, nil
	}
	removed, err := m.store.Remove(m.ctx, current.ID)
	if err != nil {
		m.errorLine = fmt.Sprintf("Delete failed: %v", err)
		m.statusLine = ""
		return m, nil
	}
	m.refresh()
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Deleted %s on %s.", removed.Subject, removed.Date)
	return m, nil
}

func (m Model) confirmClear() (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	count, err := m.store.Clear(m.ctx)
	switch {
	case errors.Is(err, logbook.ErrNothingToClear):
		m.errorLine = ""
		m.statusLine = "No data to clear."
		return m, nil
	case err != nil:
		m.errorLine = fmt.Sprintf("Clear failed: %v", err)
		m.statusLine = ""
		return m, nil
	}
	m.refresh()
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("All data cleared (%d %s).", count, chart.Plural(count, "session", "sessions"))
	return m, nil
}

func (m Model) beginImport() (tea.Model, tea.Cmd) {
	if m.importing {
		m.statusLine = "Import already in progress..."
		return m, nil
	}
	m.mode = modeImport
	m.pathInput.SetValue("")
	m.clearLines()
	return m, m.pathInput.Focus()
}

func (m Model) submitImport() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.pathInput.Value())
	if raw == "" {
		m.errorLine = "Enter a .json or .csv file path."
		return m, nil
	}
	path, err := files.ExpandHome(raw)
	if err != nil {
		m.errorLine = err.Error()
		return m, nil
	}

	m.pathInput.Blur()
	m.mode = modeNormal
	m.importing = true
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Importing %s...", path)
	return m, importFileCmd(path, m.now())
}

// importFileCmd reads and decodes off the update loop; the store is only
// touched once the result message arrives.
func importFileCmd(path string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		result, err := transfer.DecodeFile(path, now)
		return importResultMsg{path: path, result: result, err: err}
	}
}

func (m Model) handleImportResult(msg importResultMsg) (tea.Model, tea.Cmd) {
	m.importing = false
	if msg.err != nil {
		m.logger.WarnContext(m.ctx, "import failed", "path", msg.path, "error", msg.err)
		m.errorLine = fmt.Sprintf("Import failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	added, err := m.store.Append(m.ctx, msg.result.Sessions)
	if err != nil {
		m.errorLine = fmt.Sprintf("Import failed: %v", err)
		m.statusLine = ""
		return m, nil
	}
	m.logger.InfoContext(m.ctx, "imported sessions", "path", msg.path, "added", len(added), "skipped", msg.result.Skipped)

	m.refresh()
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Imported %d %s", len(added), chart.Plural(len(added), "record", "records"))
	if msg.result.Skipped > 0 {
		m.statusLine += fmt.Sprintf(" (skipped %d invalid)", msg.result.Skipped)
	}
	m.statusLine += "."
	return m, nil
}

func (m Model) export(format transfer.Format) (tea.Model, tea.Cmd) {
	data, err := transfer.Export(m.store.Sessions(), format)
	if err != nil {
		m.errorLine = fmt.Sprintf("Export failed: %v", err)
		m.statusLine = ""
		return m, nil
	}
	path, err := m.manager.ExportPath(m.cfg.ExportDir, format.FileName())
	if err == nil {
		err = files.WriteAtomic(path, data)
	}
	if err != nil {
		m.errorLine = fmt.Sprintf("Export failed: %v", err)
		m.statusLine = ""
		return m, nil
	}
	m.logger.InfoContext(m.ctx, "exported sessions", "format", format, "path", path)
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Data exported as %s (%s).", format.FileName(), path)
	return m, nil
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	next := m.theme.Toggle()
	if err := m.store.SetTheme(m.ctx, next); err != nil {
		m.errorLine = fmt.Sprintf("Theme not saved: %v", err)
		return m, nil
	}
	m.applyTheme(next)
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Theme: %s.", next)
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.store.Load(m.ctx)
	m.applyTheme(m.store.Theme(m.ctx))
	m.refresh()
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Reloaded %d %s.", len(m.sessions), chart.Plural(len(m.sessions), "session", "sessions"))
	return m, nil
}

func (m Model) cancel(message string) (tea.Model, tea.Cmd) {
	for i := range m.form {
		m.form[i].Blur()
	}
	m.pathInput.Blur()
	m.mode = modeNormal
	m.editingID = ""
	m.errorLine = ""
	m.statusLine = message
	return m, nil
}

func (m *Model) refresh() {
	m.sessions = m.store.Recent()
	if m.selected >= len(m.sessions) {
		m.selected = max(len(m.sessions)-1, 0)
	}
}

func (m *Model) selectID(id string) {
	for i, s := range m.sessions {
		if s.ID == id {
			m.selected = i
			return
		}
	}
}

func (m *Model) applyTheme(theme logbook.Theme) {
	m.theme = theme
	m.styles = chart.NewStyles(theme)
}

func (m *Model) clearLines() {
	m.statusLine = ""
	m.errorLine = ""
}

func (m Model) current() (logbook.Session, bool) {
	if m.selected < 0 || m.selected >= len(m.sessions) {
		return logbook.Session{}, false
	}
	return m.sessions[m.selected], true
}
