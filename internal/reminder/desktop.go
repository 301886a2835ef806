package reminder

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/beeep"
)

// Permission mirrors the tri-state of an OS notification permission.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func ParsePermission(s string) (Permission, error) {
	switch Permission(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionDefault, "":
		return PermissionDefault, nil
	case PermissionGranted:
		return PermissionGranted, nil
	case PermissionDenied:
		return PermissionDenied, nil
	}
	return "", fmt.Errorf("unknown notification permission %q (want default|granted|denied)", s)
}

// Notifier shows one native notification.
type Notifier interface {
	Notify(title, body string) error
}

// BeeepNotifier sends notifications through the platform's native service.
type BeeepNotifier struct{}

func (BeeepNotifier) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

type Outcome int

const (
	Delivered Outcome = iota
	Skipped
	NeedsPermission
	Queued
)

// Desktop gates a Notifier behind a permission. Notices that arrive while
// the permission is undetermined wait for Resolve.
type Desktop struct {
	mu         sync.Mutex
	permission Permission
	notifier   Notifier
	pending    []Notice
}

func NewDesktop(n Notifier, p Permission) *Desktop {
	if p == "" {
		p = PermissionDefault
	}
	return &Desktop{notifier: n, permission: p}
}

func (d *Desktop) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// Deliver shows n when permitted. NeedsPermission is returned only for the
// first queued notice, so the caller asks the user once.
func (d *Desktop) Deliver(n Notice) (Outcome, error) {
	d.mu.Lock()
	switch d.permission {
	case PermissionGranted:
		d.mu.Unlock()
		return Delivered, d.notifier.Notify(DesktopTitle, n.Message)
	case PermissionDenied:
		d.mu.Unlock()
		return Skipped, nil
	}
	first := len(d.pending) == 0
	d.pending = append(d.pending, n)
	d.mu.Unlock()
	if first {
		return NeedsPermission, nil
	}
	return Queued, nil
}

// Resolve records the user's answer and, if granted, shows everything that
// was waiting. The returned error joins individual delivery failures.
func (d *Desktop) Resolve(p Permission) (int, error) {
	d.mu.Lock()
	d.permission = p
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	if p != PermissionGranted {
		return 0, nil
	}
	var errs []error
	shown := 0
	for _, n := range pending {
		if err := d.notifier.Notify(DesktopTitle, n.Message); err != nil {
			errs = append(errs, err)
			continue
		}
		shown++
	}
	return shown, errors.Join(errs...)
}

// Pending reports how many notices await a permission answer.
func (d *Desktop) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
