package todo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_NullAndMissingFields(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"7","title":"a","duedate":null}`), &task)
	require.NoError(t, err)

	assert.Equal(t, "7", task.ID)
	assert.Equal(t, "", task.Description)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.Completed)
}

func TestUnmarshal_NumericID(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"title":"a","completed":true}`), &task))

	assert.Equal(t, "42", task.ID)
	assert.True(t, task.Completed)
}

func TestUnmarshal_DueDate(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","title":"a","duedate":"2026-10-17T09:30:00.000Z"}`), &task))

	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)))
}

func TestUnmarshal_LenientDueDate(t *testing.T) {
	var list []Task
	body := `[
		{"id":"1","title":"date only","duedate":"2025-11-23"},
		{"id":"2","title":"no offset","duedate":"2025-11-23T08:15"},
		{"id":"3","title":"garbage","duedate":"next tuesday"}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 3)

	require.NotNil(t, list[0].DueDate)
	assert.True(t, list[0].DueDate.Equal(time.Date(2025, 11, 23, 0, 0, 0, 0, time.UTC)))

	require.NotNil(t, list[1].DueDate)
	assert.True(t, list[1].DueDate.Equal(time.Date(2025, 11, 23, 8, 15, 0, 0, time.Local)))

	assert.Nil(t, list[2].DueDate)
	assert.Equal(t, "garbage", list[2].Title)
}

func TestMarshal_NoDueIsNull(t *testing.T) {
	data, err := json.Marshal(Task{ID: "1", Title: "a"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"1","title":"a","description":"","duedate":null,"completed":false}`, string(data))
}

func TestWith_KeepsUntouchedFields(t *testing.T) {
	due := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	orig := Task{ID: "x", Title: "old", Description: "keep", DueDate: &due, Completed: true}

	title := "new"
	got := orig.With(Overrides{Title: &title})

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "keep", got.Description)
	assert.Equal(t, "x", got.ID)
	assert.True(t, got.Completed)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
	assert.Equal(t, "old", orig.Title)
}

func TestWith_ClearDue(t *testing.T) {
	due := time.Now()
	orig := Task{ID: "x", Title: "a", DueDate: &due}

	got := orig.With(Overrides{ClearDue: true})

	assert.Nil(t, got.DueDate)
	assert.NotNil(t, orig.DueDate)
}

func TestToggled(t *testing.T) {
	orig := Task{ID: "x", Title: "a"}
	assert.True(t, orig.Toggled().Completed)
	assert.False(t, orig.Toggled().Toggled().Completed)
	assert.False(t, orig.Completed)
}

func TestNewDraft_RejectsBlankTitle(t *testing.T) {
	_, err := NewDraft("   ", "desc", nil)
	assert.ErrorIs(t, err, ErrTitleRequired)

	d, err := NewDraft("  Buy milk ", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", d.Title)
	assert.False(t, d.Completed)
}

func TestOverdueAndDue(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	exact := now

	assert.True(t, Task{DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{DueDate: &past, Completed: true}.IsOverdue(now))
	assert.False(t, Task{}.IsOverdue(now))
	assert.False(t, Task{DueDate: &exact}.IsOverdue(now))
	assert.True(t, Task{DueDate: &exact}.IsDue(now))
}

func TestParseAndFormatDue(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)

	due, err := ParseDue("2026-10-17 18:45", loc)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, "2026-10-17 18:45", FormatDue(due, loc))
	assert.Equal(t, 15, due.UTC().Hour())

	none, err := ParseDue("  ", loc)
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Equal(t, "", FormatDue(nil, loc))

	_, err = ParseDue("tomorrow-ish", loc)
	assert.Error(t, err)
}
