package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindr/internal/todo"
)

var testNow = time.Date(2026, 10, 17, 14, 30, 0, 0, time.FixedZone("local", 2*3600))

func at(t time.Time) *time.Time { return &t }

func ids(list []todo.Task) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func fixture() []todo.Task {
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, testNow.Location())
	return []todo.Task{
		{ID: "yesterday", Title: "Pay rent", DueDate: at(day.Add(-time.Hour))},
		{ID: "start", Title: "Standup", DueDate: at(day)},
		{ID: "later", Title: "Buy milk", Description: "2L semi-skimmed", DueDate: at(day.Add(20 * time.Hour))},
		{ID: "last", Title: "Close laptop", DueDate: at(day.Add(24*time.Hour - time.Millisecond)), Completed: true},
		{ID: "tomorrow", Title: "Dentist", DueDate: at(day.Add(24 * time.Hour))},
		{ID: "none", Title: "Read book"},
	}
}

func TestVisible_TodayKeepsCurrentLocalDay(t *testing.T) {
	got := Visible(fixture(), Query{View: ViewToday, Status: StatusAll, Sort: SortDueAsc}, testNow)

	assert.Equal(t, []string{"start", "later", "last"}, ids(got))
	for _, task := range got {
		require.NotNil(t, task.DueDate)
		assert.Equal(t, 17, task.DueDate.In(testNow.Location()).Day())
	}
}

func TestVisible_UpcomingStartsTomorrow(t *testing.T) {
	got := Visible(fixture(), Query{View: ViewUpcoming, Status: StatusAll, Sort: SortDueAsc}, testNow)
	assert.Equal(t, []string{"tomorrow"}, ids(got))
}

func TestVisible_NoDueNeverInTodayOrUpcoming(t *testing.T) {
	for _, v := range []View{ViewToday, ViewUpcoming} {
		got := Visible([]todo.Task{{ID: "none", Title: "x"}}, Query{View: v, Status: StatusAll, Sort: SortDueAsc}, testNow)
		assert.Empty(t, got, v)
	}
}

func TestVisible_SearchIsCaseInsensitiveOnTitleAndDescription(t *testing.T) {
	q := Query{View: ViewInbox, Status: StatusAll, Sort: SortDueAsc}

	q.Search = "MILK"
	assert.Equal(t, []string{"later"}, ids(Visible(fixture(), q, testNow)))

	q.Search = "semi"
	assert.Equal(t, []string{"later"}, ids(Visible(fixture(), q, testNow)))

	q.Search = "   "
	assert.Len(t, Visible(fixture(), q, testNow), len(fixture()))
}

func TestVisible_StatusFilters(t *testing.T) {
	q := Query{View: ViewInbox, Sort: SortDueAsc}

	q.Status = StatusCompleted
	assert.Equal(t, []string{"last"}, ids(Visible(fixture(), q, testNow)))

	q.Status = StatusPending
	assert.NotContains(t, ids(Visible(fixture(), q, testNow)), "last")

	q.Status = StatusOverdue
	assert.Equal(t, []string{"yesterday", "start"}, ids(Visible(fixture(), q, testNow)))
}

func TestVisible_OverdueYesterdayVsTomorrow(t *testing.T) {
	list := []todo.Task{
		{ID: "a", Title: "old", DueDate: at(testNow.AddDate(0, 0, -1))},
		{ID: "b", Title: "new", DueDate: at(testNow.AddDate(0, 0, 1))},
	}
	got := Visible(list, Query{View: ViewInbox, Status: StatusOverdue, Sort: SortDueAsc}, testNow)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestVisible_ToggleRemovesFromOverdue(t *testing.T) {
	c := NewCache()
	require.True(t, c.Replace([]todo.Task{{ID: "a", Title: "old", DueDate: at(testNow.Add(-time.Minute))}}, c.Begin()))
	q := Query{View: ViewInbox, Status: StatusOverdue, Sort: SortDueAsc}
	require.Len(t, Visible(c.All(), q, testNow), 1)

	task, _ := c.Get("a")
	c.Put(task.Toggled())

	assert.Empty(t, Visible(c.All(), q, testNow))
}

func TestVisible_NoDueSortsLastAscendingFirstDescending(t *testing.T) {
	list := []todo.Task{
		{ID: "n1", Title: "x"},
		{ID: "d1", Title: "x", DueDate: at(testNow.Add(time.Hour))},
		{ID: "n2", Title: "x"},
		{ID: "d2", Title: "x", DueDate: at(testNow.Add(-time.Hour))},
	}

	asc := ids(Visible(list, Query{View: ViewInbox, Status: StatusAll, Sort: SortDueAsc}, testNow))
	assert.Equal(t, []string{"d2", "d1"}, asc[:2])
	assert.ElementsMatch(t, []string{"n1", "n2"}, asc[2:])

	desc := ids(Visible(list, Query{View: ViewInbox, Status: StatusAll, Sort: SortDueDesc}, testNow))
	assert.ElementsMatch(t, []string{"n1", "n2"}, desc[:2])
	assert.Equal(t, []string{"d1", "d2"}, desc[2:])
}

func TestVisible_DoesNotMutateInput(t *testing.T) {
	list := fixture()
	_ = Visible(list, Query{View: ViewInbox, Status: StatusAll, Sort: SortDueDesc}, testNow)
	assert.Equal(t, ids(fixture()), ids(list))
}

func TestParseHelpers(t *testing.T) {
	v, err := ParseView("Today")
	require.NoError(t, err)
	assert.Equal(t, ViewToday, v)
	_, err = ParseView("someday")
	assert.Error(t, err)

	s, err := ParseStatus("overdue")
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, s)

	o, err := ParseSort("DUEDATE_DESC")
	require.NoError(t, err)
	assert.Equal(t, SortDueDesc, o)

	assert.Equal(t, ViewToday, ViewInbox.Next())
	assert.Equal(t, ViewInbox, ViewUpcoming.Next())
	assert.Equal(t, StatusAll, StatusOverdue.Next())
	assert.Equal(t, SortDueAsc, SortDueDesc.Flip())
}
