// Package session tracks the modal edit/delete interaction: which task is
// being edited or awaiting delete confirmation.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"remindr/internal/todo"
)

var (
	ErrSessionActive = errors.New("another edit or delete is in progress")
	ErrNotEditing    = errors.New("no edit in progress")
	ErrNotDeleting   = errors.New("no delete awaiting confirmation")
)

type State int

const (
	Idle State = iota
	Editing
	ConfirmingDelete
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirming-delete"
	default:
		return "idle"
	}
}

// Form is the staging area for an edit. Due is in todo.InputLayout.
type Form struct {
	Title       string
	Description string
	Due         string
}

// Session allows one edit or delete at a time.
type Session struct {
	state  State
	taskID string
}

func (s *Session) State() State   { return s.state }
func (s *Session) TaskID() string { return s.taskID }
func (s *Session) Active() bool   { return s.state != Idle }

// BeginEdit opens an edit for t and returns the pre-filled form.
func (s *Session) BeginEdit(t todo.Task, loc *time.Location) (Form, error) {
	if s.Active() {
		return Form{}, ErrSessionActive
	}
	s.state, s.taskID = Editing, t.ID
	return Form{
		Title:       t.Title,
		Description: t.Description,
		Due:         todo.FormatDue(t.DueDate, loc),
	}, nil
}

func (s *Session) BeginDelete(id string) error {
	if s.Active() {
		return ErrSessionActive
	}
	s.state, s.taskID = ConfirmingDelete, id
	return nil
}

// Cancel abandons whatever is open.
func (s *Session) Cancel() {
	s.state, s.taskID = Idle, ""
}

// PrepareSave validates f and builds the full replacement record for
// original. The session stays in Editing until Saved is called.
func (s *Session) PrepareSave(f Form, original todo.Task, loc *time.Location) (todo.Task, error) {
	if s.state != Editing {
		return todo.Task{}, ErrNotEditing
	}
	if original.ID != s.taskID {
		return todo.Task{}, fmt.Errorf("editing %s, got %s", s.taskID, original.ID)
	}
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return todo.Task{}, todo.ErrTitleRequired
	}
	due, err := todo.ParseDue(f.Due, loc)
	if err != nil {
		return todo.Task{}, fmt.Errorf("due date invalid: %w", err)
	}
	desc := strings.TrimSpace(f.Description)
	return original.With(todo.Overrides{
		Title:       &title,
		Description: &desc,
		DueDate:     due,
		ClearDue:    due == nil,
	}), nil
}

// Saved closes the edit after the store accepted it.
func (s *Session) Saved() error {
	if s.state != Editing {
		return ErrNotEditing
	}
	s.Cancel()
	return nil
}

// Confirm returns the id to delete.
func (s *Session) Confirm() (string, error) {
	if s.state != ConfirmingDelete {
		return "", ErrNotDeleting
	}
	return s.taskID, nil
}

// Resolved closes the delete prompt once the request has finished,
// whether or not it succeeded.
func (s *Session) Resolved() error {
	if s.state != ConfirmingDelete {
		return ErrNotDeleting
	}
	s.Cancel()
	return nil
}
