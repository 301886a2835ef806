package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"remindr/internal/reminder"
	"remindr/internal/todo"
)

type updateKind int

const (
	updateToggle updateKind = iota
	updateEdit
)

type tasksLoadedMsg struct {
	tasks []todo.Task
	rev   uint64
}

// seq ties a response to the form submit that issued it. Zero means no form
// is waiting (toggles, the sample task).
type taskCreatedMsg struct {
	task   todo.Task
	sample bool
	seq    int
}

type taskUpdatedMsg struct {
	task todo.Task
	kind updateKind
	seq  int
}

type taskDeletedMsg struct{ id string }

// failureMsg carries a store error back to the update loop. banner is the
// transient message shown to the user; status replaces the status line.
type failureMsg struct {
	err    error
	status string
	banner string
	kind   failureKind
	seq    int
}

type failureKind int

const (
	failFetch failureKind = iota
	failCreate
	failSample
	failToggle
	failEdit
	failDelete
)

type sweepMsg time.Time

type bannerExpiredMsg struct{ seq int }

type desktopMsg struct {
	outcome reminder.Outcome
	err     error
}

type permissionResolvedMsg struct {
	shown int
	err   error
}

func fetchCmd(s Store, rev uint64) tea.Cmd {
	return func() tea.Msg {
		list, err := s.List(context.Background())
		if err != nil {
			return failureMsg{err: err, kind: failFetch, status: "Failed to load tasks", banner: "Failed to load tasks from API"}
		}
		return tasksLoadedMsg{tasks: list, rev: rev}
	}
}

func createCmd(s Store, d todo.Draft, sample bool, seq int) tea.Cmd {
	return func() tea.Msg {
		created, err := s.Create(context.Background(), d)
		if err != nil {
			if sample {
				return failureMsg{err: err, kind: failSample, status: "Failed to create sample"}
			}
			return failureMsg{err: err, kind: failCreate, status: "Add failed", banner: "Failed to add task", seq: seq}
		}
		return taskCreatedMsg{task: created, sample: sample, seq: seq}
	}
}

func updateCmd(s Store, t todo.Task, kind updateKind, seq int) tea.Cmd {
	return func() tea.Msg {
		updated, err := s.Update(context.Background(), t.ID, t)
		if err != nil {
			if kind == updateEdit {
				return failureMsg{err: err, kind: failEdit, status: "Save failed", banner: "Failed to save task", seq: seq}
			}
			return failureMsg{err: err, kind: failToggle, status: "Update failed", banner: "Failed to update task"}
		}
		return taskUpdatedMsg{task: updated, kind: kind, seq: seq}
	}
}

func deleteCmd(s Store, id string) tea.Cmd {
	return func() tea.Msg {
		if err := s.Delete(context.Background(), id); err != nil {
			return failureMsg{err: err, kind: failDelete, status: "Delete failed", banner: "Delete failed"}
		}
		return taskDeletedMsg{id: id}
	}
}

func sweepAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return sweepMsg(t)
	})
}

func expireBanner(seq int) tea.Cmd {
	return tea.Tick(reminder.BannerDuration, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

func deliverCmd(d *reminder.Desktop, n reminder.Notice) tea.Cmd {
	return func() tea.Msg {
		out, err := d.Deliver(n)
		return desktopMsg{outcome: out, err: err}
	}
}

func resolvePermissionCmd(d *reminder.Desktop, p reminder.Permission) tea.Cmd {
	return func() tea.Msg {
		shown, err := d.Resolve(p)
		return permissionResolvedMsg{shown: shown, err: err}
	}
}

// sampleDraft is created when the collection turns out to be empty.
func sampleDraft(now time.Time) todo.Draft {
	due := now.Add(24 * time.Hour)
	return todo.Draft{
		Title:       "Request reimbursement for outreach travel",
		Description: "Collect the transport receipts for the school outreach visit and send them to finance.",
		DueDate:     &due,
	}
}
