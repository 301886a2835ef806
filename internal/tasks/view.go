package tasks

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"remindr/internal/todo"
)

type View string

const (
	ViewInbox    View = "inbox"
	ViewToday    View = "today"
	ViewUpcoming View = "upcoming"
)

var Views = []View{ViewInbox, ViewToday, ViewUpcoming}

func (v View) Label() string {
	switch v {
	case ViewToday:
		return "Today"
	case ViewUpcoming:
		return "Upcoming"
	default:
		return "Inbox"
	}
}

type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

var Statuses = []Status{StatusAll, StatusPending, StatusCompleted, StatusOverdue}

type Sort string

const (
	SortDueAsc  Sort = "duedate_asc"
	SortDueDesc Sort = "duedate_desc"
)

func ParseView(s string) (View, error) {
	for _, v := range Views {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q (want inbox|today|upcoming)", s)
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all|pending|completed|overdue)", s)
}

func ParseSort(s string) (Sort, error) {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortDueAsc:
		return SortDueAsc, nil
	case SortDueDesc:
		return SortDueDesc, nil
	}
	return "", fmt.Errorf("unknown sort %q (want duedate_asc|duedate_desc)", s)
}

// Next cycles through the views in tab order.
func (v View) Next() View {
	return Views[(indexOf(Views, v)+1)%len(Views)]
}

func (s Status) Next() Status {
	return Statuses[(indexOf(Statuses, s)+1)%len(Statuses)]
}

func (s Sort) Flip() Sort {
	if s == SortDueDesc {
		return SortDueAsc
	}
	return SortDueDesc
}

func indexOf[T comparable](xs []T, x T) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return 0
}

// Query holds every input of the view pipeline besides the tasks and the clock.
type Query struct {
	View   View
	Search string
	Status Status
	Sort   Sort
}

// Visible filters and orders tasks for display: view, then search, then
// status, then sort by due date. Day boundaries use now's location.
func Visible(list []todo.Task, q Query, now time.Time) []todo.Task {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := dayStart.AddDate(0, 0, 1)
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]todo.Task, 0, len(list))
	for _, t := range list {
		if !inView(t, q.View, dayStart, tomorrow) {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		if !hasStatus(t, q.Status, now) {
			continue
		}
		out = append(out, t)
	}

	desc := q.Sort == SortDueDesc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := dueKey(out[i]), dueKey(out[j])
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}

// today covers the whole local day, up to and including its last instant.
func inView(t todo.Task, v View, dayStart, tomorrow time.Time) bool {
	switch v {
	case ViewToday:
		return t.DueDate != nil && !t.DueDate.Before(dayStart) && t.DueDate.Before(tomorrow)
	case ViewUpcoming:
		return t.DueDate != nil && !t.DueDate.Before(tomorrow)
	default:
		return true
	}
}

func matches(t todo.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func hasStatus(t todo.Task, s Status, now time.Time) bool {
	switch s {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusOverdue:
		return t.IsOverdue(now)
	default:
		return true
	}
}

// dueKey treats a missing due date as +Inf.
func dueKey(t todo.Task) float64 {
	if t.DueDate == nil {
		return math.Inf(1)
	}
	return float64(t.DueDate.UnixMilli())
}
