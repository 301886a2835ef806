package reminder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	shown []string
	err   error
}

func (r *recordingNotifier) Notify(title, body string) error {
	if r.err != nil {
		return r.err
	}
	r.shown = append(r.shown, title+": "+body)
	return nil
}

func TestDesktop_Granted(t *testing.T) {
	rec := &recordingNotifier{}
	d := NewDesktop(rec, PermissionGranted)

	out, err := d.Deliver(Notice{Message: "Task due: a"})
	require.NoError(t, err)
	assert.Equal(t, Delivered, out)
	assert.Equal(t, []string{"To-Do Reminder: Task due: a"}, rec.shown)
}

func TestDesktop_DeniedIsSilent(t *testing.T) {
	rec := &recordingNotifier{}
	d := NewDesktop(rec, PermissionDenied)

	out, err := d.Deliver(Notice{Message: "x"})
	require.NoError(t, err)
	assert.Equal(t, Skipped, out)
	assert.Empty(t, rec.shown)
}

func TestDesktop_UndeterminedAsksOnceThenFlushes(t *testing.T) {
	rec := &recordingNotifier{}
	d := NewDesktop(rec, PermissionDefault)

	out, _ := d.Deliver(Notice{Message: "a"})
	assert.Equal(t, NeedsPermission, out)
	out, _ = d.Deliver(Notice{Message: "b"})
	assert.Equal(t, Queued, out)
	assert.Equal(t, 2, d.Pending())

	shown, err := d.Resolve(PermissionGranted)
	require.NoError(t, err)
	assert.Equal(t, 2, shown)
	assert.Len(t, rec.shown, 2)
	assert.Zero(t, d.Pending())

	out, _ = d.Deliver(Notice{Message: "c"})
	assert.Equal(t, Delivered, out)
}

func TestDesktop_UndeterminedThenDeniedDropsQueue(t *testing.T) {
	rec := &recordingNotifier{}
	d := NewDesktop(rec, PermissionDefault)
	_, _ = d.Deliver(Notice{Message: "a"})

	shown, err := d.Resolve(PermissionDenied)
	require.NoError(t, err)
	assert.Zero(t, shown)
	assert.Empty(t, rec.shown)
	assert.Equal(t, PermissionDenied, d.Permission())
}

func TestDesktop_NotifyErrorsSurface(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("no dbus")}
	d := NewDesktop(rec, PermissionGranted)

	_, err := d.Deliver(Notice{Message: "a"})
	assert.Error(t, err)
}

func TestParsePermission(t *testing.T) {
	p, err := ParsePermission("")
	require.NoError(t, err)
	assert.Equal(t, PermissionDefault, p)

	p, err = ParsePermission("Granted")
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, p)

	_, err = ParsePermission("maybe")
	assert.Error(t, err)
}
