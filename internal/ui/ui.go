package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"remindr/internal/config"
	"remindr/internal/reminder"
	"remindr/internal/session"
	"remindr/internal/tasks"
	"remindr/internal/todo"
)

// Store is the remote collection as the UI needs it.
type Store interface {
	List(ctx context.Context) ([]todo.Task, error)
	Create(ctx context.Context, d todo.Draft) (todo.Task, error)
	Update(ctx context.Context, id string, t todo.Task) (todo.Task, error)
	Delete(ctx context.Context, id string) error
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeConfirmDelete
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldCount
)

type Options struct {
	Store    Store
	Config   config.Config
	Endpoint string
	Notifier reminder.Notifier
	Now      func() time.Time
	Interval time.Duration
}

type Model struct {
	store    Store
	cfg      config.Config
	endpoint string
	now      func() time.Time
	interval time.Duration

	cache   *tasks.Cache
	query   tasks.Query
	visible []todo.Task
	cursor  int
	mode    mode

	sess       session.Session
	fields     []textinput.Model
	focus      int
	validation string
	saving     bool
	saveSeq    int
	pending    int // seq of the submit the open form waits on, 0 if none
	search     textinput.Model

	status  string
	loading bool
	spinner spinner.Model

	banner    string
	bannerSeq int

	tracker       *reminder.Tracker
	desktop       *reminder.Desktop
	askPermission bool

	dark       bool
	showDetail bool
	width      int
	seeded     bool
}

func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = reminder.DefaultInterval
	}
	perm, err := reminder.ParsePermission(opts.Config.Notifications)
	if err != nil {
		perm = reminder.PermissionDefault
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = reminder.BeeepNotifier{}
	}

	search := textinput.New()
	search.Placeholder = "Search tasks"
	search.CharLimit = 128
	search.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		store:    opts.Store,
		cfg:      opts.Config,
		endpoint: opts.Endpoint,
		now:      now,
		interval: interval,
		cache:    tasks.NewCache(),
		query:    opts.Config.Query(),
		mode:     modeList,
		fields:   newFields(),
		search:   search,
		spinner:  sp,
		status:   "Loading tasks...",
		loading:  true,
		tracker:  reminder.NewTracker(),
		desktop:  reminder.NewDesktop(notifier, perm),
		dark:     opts.Config.Theme == "dark",
	}
}

func newFields() []textinput.Model {
	placeholders := []string{"Task title", "Description (optional)", "Due " + todo.InputLayout + " (optional)"}
	fields := make([]textinput.Model, fieldCount)
	for i := range fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		fields[i] = ti
	}
	return fields
}

// Run starts the full-screen program and blocks until the user quits.
func Run(opts Options) error {
	configureColor()
	program := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchCmd(m.store, m.cache.Begin()),
		m.spinner.Tick,
		sweepAfter(m.interval),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// The prompt waits until no form or confirmation owns the keyboard.
		if m.askPermission && m.mode == modeList {
			return m.updatePermission(msg.String())
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.fields {
			m.fields[i].Width = max(20, msg.Width-20)
		}
		m.search.Width = max(20, msg.Width-20)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		if !m.cache.Replace(msg.tasks, msg.rev) {
			// A mutation landed while the list was in flight; fetch again.
			m.status = "Tasks changed while loading, refreshing..."
			return m, fetchCmd(m.store, m.cache.Begin())
		}
		m.loading = false
		m.status = fmt.Sprintf("Loaded %d tasks", m.cache.Len())
		m.refresh()
		if m.cache.Len() == 0 && m.cfg.SeedSample && !m.seeded {
			m.seeded = true
			m.loading = true
			m.status = "Creating sample task..."
			return m, createCmd(m.store, sampleDraft(m.now()), true, 0)
		}
	case taskCreatedMsg:
		m.cache.Add(msg.task)
		m.loading = false
		switch {
		case msg.sample:
			m.status = "Sample created"
		case m.endSave(msg.seq):
			m.status = "Added successfully"
			m.resetForm()
			m.mode = modeList
		default:
			m.status = "Added successfully"
		}
		m.refresh()
		m.selectTask(msg.task.ID)
	case taskUpdatedMsg:
		m.cache.Put(msg.task)
		m.loading = false
		switch {
		case msg.kind != updateEdit:
			m.status = "Updated"
		case m.endSave(msg.seq) && m.sess.TaskID() == msg.task.ID:
			if err := m.sess.Saved(); err != nil {
				log.Printf("edit session: %v", err)
			}
			m.resetForm()
			m.mode = modeList
			m.status = "Saved"
		default:
			m.status = "Saved"
		}
		m.refresh()
		m.selectTask(msg.task.ID)
	case taskDeletedMsg:
		m.cache.Remove(msg.id)
		m.loading = false
		m.resolveDelete()
		m.status = "Deleted"
		m.refresh()
	case failureMsg:
		return m.handleFailure(msg)

	case sweepMsg:
		return m.sweep(time.Time(msg))
	case bannerExpiredMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
	case desktopMsg:
		if msg.err != nil {
			log.Printf("desktop notification: %v", msg.err)
		}
		if msg.outcome == reminder.NeedsPermission {
			m.askPermission = true
		}
	case permissionResolvedMsg:
		if msg.err != nil {
			log.Printf("desktop notification: %v", msg.err)
		}
	}
	return m, nil
}

func (m Model) handleFailure(msg failureMsg) (tea.Model, tea.Cmd) {
	log.Printf("%s: %v", msg.status, msg.err)
	m.loading = false
	m.status = msg.status
	switch msg.kind {
	case failDelete:
		m.resolveDelete()
	case failCreate, failEdit:
		m.endSave(msg.seq)
	}
	if msg.banner == "" {
		return m, nil
	}
	cmd := m.showBanner(msg.banner)
	return m, cmd
}

// beginSave marks a form submit as in flight and returns its seq.
func (m *Model) beginSave() int {
	m.saveSeq++
	m.pending = m.saveSeq
	m.saving = true
	m.loading = true
	m.status = "Saving..."
	return m.saveSeq
}

// endSave reports whether seq belongs to the form still waiting on it and,
// if so, releases the form.
func (m *Model) endSave(seq int) bool {
	if seq == 0 || seq != m.pending {
		return false
	}
	m.pending = 0
	m.saving = false
	return true
}

func (m *Model) resolveDelete() {
	if err := m.sess.Resolved(); err != nil {
		log.Printf("delete session: %v", err)
	}
	if m.mode == modeConfirmDelete {
		m.mode = modeList
	}
}

// sweep announces newly due tasks on both channels and schedules the next tick.
func (m Model) sweep(now time.Time) (tea.Model, tea.Cmd) {
	notices := m.tracker.Sweep(m.cache.All(), now)
	cmds := []tea.Cmd{sweepAfter(m.interval)}
	if len(notices) == 0 {
		return m, tea.Batch(cmds...)
	}
	msgs := make([]string, 0, len(notices))
	for _, n := range notices {
		log.Printf("reminder: %s (%s)", n.Message, n.TaskID)
		msgs = append(msgs, n.Message)
		cmds = append(cmds, deliverCmd(m.desktop, n))
	}
	cmds = append(cmds, m.showBanner(strings.Join(msgs, " • ")))
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) showBanner(text string) tea.Cmd {
	m.bannerSeq++
	m.banner = text
	return expireBanner(m.bannerSeq)
}

func (m Model) updatePermission(key string) (tea.Model, tea.Cmd) {
	var p reminder.Permission
	switch strings.ToLower(key) {
	case "y":
		p = reminder.PermissionGranted
	case "n", "esc":
		p = reminder.PermissionDenied
	default:
		return m, nil
	}
	m.askPermission = false
	m.status = "Desktop notifications " + string(p)
	return m, resolvePermissionCmd(m.desktop, p)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.visible))
	case k.Refresh:
		m.loading = true
		m.status = "Loading tasks..."
		return m, fetchCmd(m.store, m.cache.Begin())
	case k.Add:
		m.resetForm()
		m.mode = modeAdd
		m.status = "Add task: tab to move between fields, enter to save, esc to cancel"
		cmd := m.fields[fieldTitle].Focus()
		return m, cmd
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.loading = true
		m.status = "Updating..."
		return m, updateCmd(m.store, t.Toggled(), updateToggle, 0)
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startEdit(t)
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.sess.BeginDelete(t.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case k.View:
		m.query.View = m.query.View.Next()
		m.refresh()
	case k.Filter:
		m.query.Status = m.query.Status.Next()
		m.refresh()
	case k.Sort:
		m.query.Sort = m.query.Sort.Flip()
		m.refresh()
	case k.Search:
		m.mode = modeSearch
		m.search.SetValue(m.query.Search)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case k.Theme:
		m.dark = !m.dark
	case k.Detail:
		m.showDetail = !m.showDetail
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		m.search.SetValue("")
		m.query.Search = ""
		m.search.Blur()
		m.mode = modeList
		m.refresh()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query.Search = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m Model) startEdit(t todo.Task) (tea.Model, tea.Cmd) {
	form, err := m.sess.BeginEdit(t, m.now().Location())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.resetForm()
	m.fields[fieldTitle].SetValue(form.Title)
	m.fields[fieldDescription].SetValue(form.Description)
	m.fields[fieldDue].SetValue(form.Due)
	m.mode = modeEdit
	m.status = "Edit task: tab to move between fields, enter to save, esc to cancel"
	cmd := m.fields[fieldTitle].Focus()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		if m.mode == modeEdit {
			m.sess.Cancel()
		}
		m.pending = 0
		m.saving = false
		m.resetForm()
		m.mode = modeList
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		cmd := m.focusField(m.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusField(m.focus - 1)
		return m, cmd
	case m.cfg.Keys.Confirm, "enter":
		if m.saving {
			return m, nil
		}
		if m.mode == modeEdit {
			return m.saveEdit()
		}
		return m.submitAdd()
	}
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = wrapIndex(i, fieldCount)
	return m.fields[m.focus].Focus()
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	due, err := todo.ParseDue(m.fields[fieldDue].Value(), m.now().Location())
	if err != nil {
		m.validation = fmt.Sprintf("due date invalid: %v", err)
		return m, nil
	}
	draft, err := todo.NewDraft(m.fields[fieldTitle].Value(), m.fields[fieldDescription].Value(), due)
	if errors.Is(err, todo.ErrTitleRequired) {
		m.validation = "Title is required"
		return m, nil
	}
	if err != nil {
		m.validation = err.Error()
		return m, nil
	}
	m.validation = ""
	seq := m.beginSave()
	return m, createCmd(m.store, draft, false, seq)
}

func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	original, ok := m.cache.Get(m.sess.TaskID())
	if !ok {
		m.sess.Cancel()
		m.resetForm()
		m.mode = modeList
		m.status = "Task no longer exists"
		return m, nil
	}
	form := session.Form{
		Title:       m.fields[fieldTitle].Value(),
		Description: m.fields[fieldDescription].Value(),
		Due:         m.fields[fieldDue].Value(),
	}
	updated, err := m.sess.PrepareSave(form, original, m.now().Location())
	if errors.Is(err, todo.ErrTitleRequired) {
		m.validation = "Title required"
		return m, nil
	}
	if err != nil {
		m.validation = err.Error()
		return m, nil
	}
	m.validation = ""
	seq := m.beginSave()
	return m, updateCmd(m.store, updated, updateEdit, seq)
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.sess.Cancel()
		m.mode = modeList
		m.status = "Delete cancelled"
		return m, nil
	case "y", "Y":
		id, err := m.sess.Confirm()
		if err != nil {
			m.mode = modeList
			m.status = "Nothing to delete"
			return m, nil
		}
		m.loading = true
		m.status = "Deleting..."
		return m, deleteCmd(m.store, id)
	}
	return m, nil
}

func (m *Model) resetForm() {
	for i := range m.fields {
		m.fields[i].SetValue("")
		m.fields[i].Blur()
	}
	m.focus = fieldTitle
	m.validation = ""
}

// refresh recomputes the visible list and keeps the cursor in range.
func (m *Model) refresh() {
	m.visible = tasks.Visible(m.cache.All(), m.query, m.now())
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m *Model) selectTask(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (todo.Task, bool) {
	if len(m.visible) == 0 {
		return todo.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
