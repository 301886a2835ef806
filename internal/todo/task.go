package todo

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// InputLayout is the local, editable representation of a due date.
const InputLayout = "2006-01-02 15:04"

var ErrTitleRequired = errors.New("title is required")

// Task mirrors one record of the remote todos collection.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	DueDate     *time.Time `json:"duedate" yaml:"duedate"`
	Completed   bool       `json:"completed" yaml:"completed"`
}

// UnmarshalJSON tolerates null or missing fields the remote may send back.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		Title       *string         `json:"title"`
		Description *string         `json:"description"`
		DueDate     *string         `json:"duedate"`
		Completed   *bool           `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	*t = Task{ID: id}
	if raw.Title != nil {
		t.Title = *raw.Title
	}
	if raw.Description != nil {
		t.Description = *raw.Description
	}
	if raw.Completed != nil {
		t.Completed = *raw.Completed
	}
	if raw.DueDate != nil {
		t.DueDate = parseRemoteDue(*raw.DueDate)
	}
	return nil
}

// parseRemoteDue reads a stored due date. Date-only values are midnight UTC
// and timestamps without an offset are local. Anything unreadable is treated
// as no due date so one bad record does not sink the whole list.
func parseRemoteDue(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if due, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return &due
	}
	if due, err := time.Parse("2006-01-02", v); err == nil {
		return &due
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if due, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return &due
		}
	}
	return nil
}

// decodeID accepts both string and numeric ids; some REST mocks emit numbers.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func (t Task) HasDue() bool {
	return t.DueDate != nil
}

// IsDue reports whether an incomplete task has reached its due time.
func (t Task) IsDue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && !now.Before(*t.DueDate)
}

// IsOverdue is strict: the due time must lie in the past.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Overrides names the fields an update replaces. Nil pointers keep the
// original value; ClearDue removes the due date.
type Overrides struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	Completed   *bool
}

// With returns a full replacement record built from t and o. t is left untouched.
func (t Task) With(o Overrides) Task {
	out := t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	if o.Title != nil {
		out.Title = *o.Title
	}
	if o.Description != nil {
		out.Description = *o.Description
	}
	switch {
	case o.ClearDue:
		out.DueDate = nil
	case o.DueDate != nil:
		due := *o.DueDate
		out.DueDate = &due
	}
	if o.Completed != nil {
		out.Completed = *o.Completed
	}
	return out
}

// Toggled flips completion.
func (t Task) Toggled() Task {
	done := !t.Completed
	return t.With(Overrides{Completed: &done})
}

// Draft is a task that has not been created yet.
type Draft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"duedate"`
	Completed   bool       `json:"completed"`
}

func NewDraft(title, description string, due *time.Time) (Draft, error) {
	d := Draft{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		DueDate:     due,
	}
	return d, d.Validate()
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// ParseDue reads a due date typed in InputLayout, interpreted in loc.
// Empty input means no due date. A full RFC 3339 timestamp is also accepted.
func ParseDue(v string, loc *time.Location) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{InputLayout, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return &t, nil
		}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDue renders a due date for an edit field in loc.
func FormatDue(due *time.Time, loc *time.Location) string {
	if due == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return due.In(loc).Format(InputLayout)
}
