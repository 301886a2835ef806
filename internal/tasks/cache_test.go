package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindr/internal/todo"
)

func TestCache_PutUsesServerRecord(t *testing.T) {
	c := NewCache()
	require.True(t, c.Replace([]todo.Task{{ID: "1", Title: "a"}}, c.Begin()))

	assert.True(t, c.Put(todo.Task{ID: "1", Title: "A", Completed: true}))
	assert.False(t, c.Put(todo.Task{ID: "2", Title: "b"}))

	got, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)
	assert.True(t, got.Completed)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Remove(t *testing.T) {
	c := NewCache()
	c.Add(todo.Task{ID: "1"})
	c.Add(todo.Task{ID: "2"})
	c.Add(todo.Task{ID: "3"})

	assert.True(t, c.Remove("2"))
	assert.False(t, c.Remove("2"))

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "3", all[1].ID)
}

func TestCache_StaleListIsRejected(t *testing.T) {
	c := NewCache()
	issued := c.Begin()

	// A create lands while the list is in flight.
	c.Add(todo.Task{ID: "new", Title: "just created"})

	ok := c.Replace([]todo.Task{{ID: "old"}}, issued)
	assert.False(t, ok)
	_, stillThere := c.Get("new")
	assert.True(t, stillThere)

	assert.True(t, c.Replace([]todo.Task{{ID: "old"}, {ID: "new"}}, c.Begin()))
	assert.Equal(t, 2, c.Len())
}

func TestCache_AddAfterListAlreadyHoldingTask(t *testing.T) {
	c := NewCache()
	// The refresh was answered after the server stored the create but before
	// the create response arrived.
	require.True(t, c.Replace([]todo.Task{{ID: "1", Title: "Buy milk"}}, c.Begin()))

	c.Add(todo.Task{ID: "1", Title: "Buy milk"})
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Remove("1"))
	assert.Zero(t, c.Len())
	_, ok := c.Get("1")
	assert.False(t, ok)
}

func TestCache_AllIsACopy(t *testing.T) {
	c := NewCache()
	c.Add(todo.Task{ID: "1", Title: "a"})

	all := c.All()
	all[0].Title = "mutated"

	got, _ := c.Get("1")
	assert.Equal(t, "a", got.Title)
}
