package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindr/internal/todo"
)

func at(t time.Time) *time.Time { return &t }

func TestSweep_NotifiesOncePerTask(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	list := []todo.Task{
		{ID: "1", Title: "Buy milk", DueDate: at(now.Add(-time.Minute))},
		{ID: "2", Title: "Later", DueDate: at(now.Add(time.Hour))},
		{ID: "3", Title: "Done", DueDate: at(now.Add(-time.Hour)), Completed: true},
		{ID: "4", Title: "Whenever"},
	}
	tr := NewTracker()

	first := tr.Sweep(list, now)
	require.Len(t, first, 1)
	assert.Equal(t, "1", first[0].TaskID)
	assert.Equal(t, "Task due: Buy milk", first[0].Message)

	for i := 1; i <= 5; i++ {
		assert.Empty(t, tr.Sweep(list, now.Add(time.Duration(i)*DefaultInterval)))
	}
	assert.Equal(t, 1, tr.Len())
}

func TestSweep_DueExactlyNowFires(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	got := tr.Sweep([]todo.Task{{ID: "1", Title: "x", DueDate: at(now)}}, now)
	assert.Len(t, got, 1)
}

func TestSweep_ReopenedTaskIsNotRenotified(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	task := todo.Task{ID: "1", Title: "x", DueDate: at(now.Add(-time.Minute))}
	tr := NewTracker()
	require.Len(t, tr.Sweep([]todo.Task{task}, now), 1)

	done := task.Toggled()
	assert.Empty(t, tr.Sweep([]todo.Task{done}, now))

	reopened := done.Toggled()
	later := now.Add(time.Hour)
	rescheduled := reopened.With(todo.Overrides{DueDate: &later})
	assert.Empty(t, tr.Sweep([]todo.Task{rescheduled}, later.Add(time.Minute)))
	assert.True(t, tr.Notified("1"))
}

func TestSweep_BuyMilkScenario(t *testing.T) {
	created := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	list := []todo.Task{{ID: "m", Title: "Buy milk", DueDate: at(created.Add(time.Hour))}}
	tr := NewTracker()

	tick := created
	var fired []Notice
	for tick.Before(created.Add(90 * time.Minute)) {
		tick = tick.Add(DefaultInterval)
		fired = append(fired, tr.Sweep(list, tick)...)
	}

	require.Len(t, fired, 1)
	assert.Contains(t, fired[0].Message, "Buy milk")
}
