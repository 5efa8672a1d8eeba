package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recgrid/internal/config"
	"github.com/five82/recgrid/internal/grid"
	"github.com/five82/recgrid/internal/keymap"
	"github.com/five82/recgrid/internal/logging"
	"github.com/five82/recgrid/internal/prefs"
	"github.com/five82/recgrid/internal/records"
	"github.com/five82/recgrid/internal/state"
	"github.com/five82/recgrid/internal/viewstore"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Source    records.Source
	Store     *state.Store
	Config    *config.Config
	ViewStore viewstore.Store
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	// LogPath is the log file shown by the log viewer.
	LogPath string
	// LastPage is the table page selected on start.
	LastPage string

	// Now, Scheduler and Clipboard replace the clock, the debounce timer
	// and the OS clipboard.
	Now       func() time.Time
	Scheduler grid.Scheduler
	Clipboard func(string) error
	Logger    *slog.Logger
}

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toast struct {
	text string
	kind toastKind
	id   int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	source    records.Source
	store     *state.Store
	config    config.Config
	catalog   records.Catalog
	prefsPath string
	logPath   string
	pollTick  time.Duration
	now       func() time.Time
	copyText  func(string) error
	pageOpts  pageOptions

	// Input
	keys   keyMap
	help   help.Model
	router *keymap.Router
	clicks *keymap.ClickTracker
	editor textinput.Model

	commits *commitQueue

	// Pages
	pages   []*page
	current int

	// Data state
	snapshot state.Snapshot
	tables   map[string][]grid.Record
	applied  uint64

	// UI state
	theme  Theme
	modal  Modal
	toast  toast
	toasts int
	width  int
	height int
	ready  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.L
	}

	keys := DefaultKeyMap()
	catalog := opts.Source.Catalog()

	navKeys := cfg.NavKeys
	if len(navKeys) == 0 {
		navKeys = catalog.NavKeys()
	}
	reserved := keys.appLetters()
	allowed := make(map[string]string, len(navKeys))
	for letter, target := range navKeys {
		if !reserved[letter] {
			allowed[letter] = target
		}
	}

	pageOpts := pageOptions{
		store:     opts.ViewStore,
		saveDelay: cfg.SaveDebounce,
		scheduler: opts.Scheduler,
		logger:    logger,
		navKeys:   allowed,
		now:       opts.Now,
	}

	pages := make([]*page, 0, len(catalog.Tables))
	current := 0
	for _, t := range catalog.Tables {
		if t.Name == opts.LastPage {
			current = len(pages)
		}
		pages = append(pages, newTablePage(t, nil, pageOpts))
	}

	editor := textinput.New()
	editor.Prompt = ""

	m := Model{
		ctx:       ctx,
		source:    opts.Source,
		store:     opts.Store,
		config:    cfg,
		catalog:   catalog,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		pollTick:  pollTick,
		now:       now,
		copyText:  copyText,
		pageOpts:  pageOpts,
		keys:      keys,
		help:      help.New(),
		router:    &keymap.Router{},
		clicks:    &keymap.ClickTracker{},
		editor:    editor,
		commits:   newCommitQueue(),
		pages:     pages,
		current:   current,
		tables:    map[string][]grid.Record{},
		theme:     GetTheme(themeName),
	}
	if p := m.page(); p != nil {
		m.router.Activate(p.id, p.dispatcher)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.scroll()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		cmd := m.applySnapshot(state.Snapshot(msg))
		return m, cmd

	case commitResultMsg:
		cmd := m.resolveCommit(msg)
		return m, cmd

	case clearStatusMsg:
		if p := m.pageByID(msg.pageID); p != nil {
			for _, field := range msg.fields {
				p.grid.ClearStatus(msg.rowID, field, msg.seq)
			}
		}
		return m, nil

	case rowCreatedMsg:
		cmd := m.handleRowCreated(msg)
		return m, cmd

	case exportDoneMsg:
		if msg.err != nil {
			logging.Warn("export failed", "page", msg.pageID, "error", msg.err)
			cmd := m.showToast("Export failed: "+msg.err.Error(), toastError)
			return m, cmd
		}
		cmd := m.showToast("Exported "+truncateMiddle(msg.path, 60), toastSuccess)
		return m, cmd

	case toastExpiredMsg:
		if int(msg) == m.toast.id {
			m.toast = toast{}
		}
		return m, nil

	case editorSubmitMsg:
		p := m.pageByID(msg.pageID)
		if p == nil || !p.grid.Editing() {
			return m, nil
		}
		p.grid.SetDraft(msg.value)
		cmd := m.commitEdit(p)
		return m, cmd

	case promptSubmitMsg:
		cmd := m.applyFilterInput(msg)
		return m, cmd

	case recordSubmitMsg:
		cmd := m.submitRecord(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	main := m.renderMain()
	if m.modal != nil {
		return placeModal(m.modal.View(m.theme, m.width, m.height), main)
	}
	return main
}

// handleKey routes a key to the open modal, the inline editor, the
// application bindings and finally the active grid dispatcher.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, m.quit()
	}

	p := m.page()
	if p == nil {
		return m, nil
	}
	ev := keymap.FromTea(msg)

	if m.modal != nil {
		if act, ok := m.router.Route(ev, p.dispatchContext(true)); ok && act.Kind == keymap.ActionCloseOverlay {
			m.closeModal()
			return m, nil
		}
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if p.grid.Editing() {
		return m.handleEditKey(p, ev, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.modal = newHelpModal(m.keys, p.dispatcher.KeyMap(), p.dispatcher.NavigationTargets())
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewLog):
		m.openLog()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		cmd := m.switchPage((m.current - 1 + len(m.pages)) % len(m.pages))
		return m, cmd

	case key.Matches(msg, m.keys.NextPage):
		cmd := m.switchPage((m.current + 1) % len(m.pages))
		return m, cmd

	case key.Matches(msg, m.keys.ClosePage):
		if p.detail {
			m.closePage(m.current)
		}
		return m, nil

	case key.Matches(msg, m.keys.NewRow):
		if p.detail {
			return m, nil
		}
		return m, m.createRowCmd(p, nil)

	case key.Matches(msg, m.keys.Duplicate):
		rec, _, ok := p.grid.SelectedRecord()
		if p.detail || !ok {
			return m, nil
		}
		return m, m.createRowCmd(p, &rec)

	case key.Matches(msg, m.keys.Filter):
		_, col, ok := p.grid.SelectedRecord()
		if !ok {
			return m, nil
		}
		value := ""
		if f, ok := p.grid.Filter(col.Key); ok {
			value = string(f.Operator) + " " + f.Value
		}
		m.modal = newPromptModal("Filter "+col.Header, p.id, col.Key, value, filterHint(col))
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		_, col, ok := p.grid.SelectedRecord()
		if !ok {
			return m, nil
		}
		if err := p.grid.ToggleSort(col.Key); err != nil {
			cmd := m.showToast(err.Error(), toastError)
			return m, cmd
		}
		m.scroll()
		return m, nil
	}

	if act, ok := m.router.Route(ev, p.dispatchContext(false)); ok {
		return m.performAction(act)
	}
	return m, nil
}

// handleEditKey drives the inline editor. Only the row-selection keys reach
// the dispatcher while it has focus.
func (m Model) handleEditKey(p *page, ev keymap.KeyEvent, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if act, ok := m.router.Route(ev, p.dispatchContext(false)); ok {
		return m.performAction(act)
	}
	switch {
	case msg.Type == tea.KeyEsc:
		p.grid.CancelEdit()
		m.editor.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.commitEdit(p)
		return m, cmd
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	p.grid.SetDraft(m.editor.Value())
	return m, cmd
}

// applySnapshot hands new table data to every page once per revision. An
// edit whose record dropped out of view is closed with a notice.
func (m *Model) applySnapshot(snap state.Snapshot) tea.Cmd {
	m.snapshot = snap
	if snap.Tables == nil || snap.Revision == m.applied {
		return nil
	}
	m.applied = snap.Revision
	m.tables = snap.Tables
	var cmd tea.Cmd
	for _, p := range m.pages {
		editing := p.grid.Editing()
		p.applyRecords(m.tables, m.catalog)
		p.markOverdue(m.now())
		if editing && !p.grid.Editing() {
			cmd = m.dropEdit(p)
		}
	}
	m.scroll()
	return cmd
}

func (m *Model) dropEdit(p *page) tea.Cmd {
	if em, ok := m.modal.(*editorModal); ok && em.pageID == p.id {
		m.modal = nil
	}
	if p != m.page() {
		return nil
	}
	m.editor.Blur()
	return m.showToast("Edit closed: the record is no longer visible", toastError)
}

// page returns the active page.
func (m Model) page() *page {
	if m.current < 0 || m.current >= len(m.pages) {
		return nil
	}
	return m.pages[m.current]
}

func (m Model) pageByID(id string) *page {
	for _, p := range m.pages {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (m Model) pageIndex(id string) int {
	for i, p := range m.pages {
		if p.id == id {
			return i
		}
	}
	return -1
}

// switchPage activates page i. An open edit on the old page is committed
// first; when the draft does not coerce the page stays put.
func (m *Model) switchPage(i int) tea.Cmd {
	if i == m.current || i < 0 || i >= len(m.pages) {
		return nil
	}
	old := m.page()
	var cmd tea.Cmd
	if old.grid.Editing() {
		cmd = m.commitEdit(old)
		if old.grid.Editing() {
			return cmd
		}
	}
	m.router.Deactivate(old.id)
	m.current = i
	p := m.page()
	m.router.Activate(p.id, p.dispatcher)
	m.clicks.Reset()
	m.scroll()
	return cmd
}

// closePage removes a detail page.
func (m *Model) closePage(i int) {
	if i < 0 || i >= len(m.pages) || !m.pages[i].detail {
		return
	}
	closing := m.pages[i]
	m.router.Deactivate(closing.id)
	m.pages = append(m.pages[:i], m.pages[i+1:]...)
	if m.current >= i {
		m.current = max(0, m.current-1)
	}
	p := m.page()
	m.router.Activate(p.id, p.dispatcher)
	m.clicks.Reset()
	m.scroll()
}

func (m *Model) closeModal() {
	if closer, ok := m.modal.(modalCloser); ok {
		closer.Dismiss(m)
	}
	m.modal = nil
}

// scroll keeps the selection of the active page on screen.
func (m *Model) scroll() {
	p := m.page()
	if p == nil || !m.ready {
		return
	}
	p.scrollTo(m.gridRows(), m.width-rowGutter)
}

// gridRows is the number of data rows that fit on screen.
func (m Model) gridRows() int {
	return max(1, m.height-chromeLines)
}

func (m *Model) showToast(text string, kind toastKind) tea.Cmd {
	m.toasts++
	m.toast = toast{text: text, kind: kind, id: m.toasts}
	id := m.toasts
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg(id)
	})
}

// lastTablePage names the table page to restore on the next start.
func (m Model) lastTablePage() string {
	p := m.page()
	if p == nil {
		return ""
	}
	return p.table.Name
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, LastPage: m.lastTablePage()}); err != nil {
		logging.Warn("save preferences", "error", err)
	}
}

// quit flushes pending view configuration writes and remembers the page.
func (m Model) quit() tea.Cmd {
	for _, p := range m.pages {
		if err := p.grid.Flush(); err != nil {
			logging.Warn("flush view config", "page", p.id, "error", err)
		}
	}
	m.savePrefs()
	return tea.Quit
}

// labelMaps returns id to label maps for every loaded table.
func (m Model) labelMaps() map[string]map[int64]string {
	out := make(map[string]map[int64]string, len(m.tables))
	for _, t := range m.catalog.Tables {
		if rows, ok := m.tables[t.Name]; ok {
			out[t.Name] = records.LabelIndex(t, rows)
		}
	}
	return out
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type toastExpiredMsg int

type commitResultMsg struct {
	pageID string
	table  string
	commit grid.Commit
	record grid.Record
	err    error
}

type clearStatusMsg struct {
	pageID string
	rowID  int64
	fields []string
	seq    int64
}

type rowCreatedMsg struct {
	pageID    string
	record    grid.Record
	duplicate bool
	err       error
}

type exportDoneMsg struct {
	pageID string
	path   string
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
