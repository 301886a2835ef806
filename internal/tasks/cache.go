package tasks

import "remindr/internal/todo"

// Cache mirrors the remote collection as last observed. It is owned by a
// single goroutine (the UI update loop) and is not safe for concurrent use.
//
// Every mutation bumps the revision. A fetch records the revision when it is
// issued and Replace refuses its result if anything changed in between, so a
// slow list cannot silently drop a task created while it was in flight.
type Cache struct {
	tasks []todo.Task
	rev   uint64
}

func NewCache() *Cache {
	return &Cache{}
}

// Begin returns the revision a fetch must hand back to Replace.
func (c *Cache) Begin() uint64 {
	return c.rev
}

func (c *Cache) Revision() uint64 {
	return c.rev
}

// Replace overwrites the cache with a fetched list. It reports false and
// leaves the cache alone if the list is stale.
func (c *Cache) Replace(list []todo.Task, issuedAt uint64) bool {
	if issuedAt != c.rev {
		return false
	}
	c.tasks = append([]todo.Task(nil), list...)
	c.rev++
	return true
}

// Add appends a created task. A list that landed before the create response
// may already hold it, in which case the record is replaced in place.
func (c *Cache) Add(t todo.Task) {
	if i := c.index(t.ID); i >= 0 {
		c.tasks[i] = t
	} else {
		c.tasks = append(c.tasks, t)
	}
	c.rev++
}

// Put swaps in the server's copy of an existing task.
func (c *Cache) Put(t todo.Task) bool {
	i := c.index(t.ID)
	if i < 0 {
		return false
	}
	c.tasks[i] = t
	c.rev++
	return true
}

func (c *Cache) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	c.rev++
	return true
}

func (c *Cache) Get(id string) (todo.Task, bool) {
	i := c.index(id)
	if i < 0 {
		return todo.Task{}, false
	}
	return c.tasks[i], true
}

// All returns a copy in cache order.
func (c *Cache) All() []todo.Task {
	return append([]todo.Task(nil), c.tasks...)
}

func (c *Cache) Len() int {
	return len(c.tasks)
}

func (c *Cache) index(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
