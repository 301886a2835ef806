// Package reminder decides when a task's due time has passed and fans the
// resulting notices out to the in-app banner and the desktop.
package reminder

import (
	"fmt"
	"time"

	"remindr/internal/todo"
)

const (
	// DefaultInterval is how often the cache is swept.
	DefaultInterval = 20 * time.Second
	// BannerDuration is how long the in-app banner stays up.
	BannerDuration = 5 * time.Second
	// DesktopTitle heads every desktop notification.
	DesktopTitle = "To-Do Reminder"
)

type Notice struct {
	TaskID  string
	Title   string
	Message string
}

func NewNotice(t todo.Task) Notice {
	return Notice{TaskID: t.ID, Title: t.Title, Message: fmt.Sprintf("Task due: %s", t.Title)}
}

// Tracker remembers which task ids were already announced this session.
// Ids are never forgotten, so a task fires at most once even if it is
// reopened or rescheduled later.
type Tracker struct {
	notified map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{notified: map[string]struct{}{}}
}

// Sweep returns a notice for every incomplete task whose due time is at or
// before now and which has not been announced yet.
func (tr *Tracker) Sweep(list []todo.Task, now time.Time) []Notice {
	var out []Notice
	for _, t := range list {
		if !t.IsDue(now) {
			continue
		}
		if _, seen := tr.notified[t.ID]; seen {
			continue
		}
		tr.notified[t.ID] = struct{}{}
		out = append(out, NewNotice(t))
	}
	return out
}

func (tr *Tracker) Notified(id string) bool {
	_, ok := tr.notified[id]
	return ok
}

func (tr *Tracker) Len() int {
	return len(tr.notified)
}
