package service

import (
	"strings"
	"sync"
	"time"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
)

// DefaultToastTTL is how long a toast stays visible when no ttl is given.
const DefaultToastTTL = 3000 * time.Millisecond

// stopper is the part of *time.Timer the toaster needs.
type stopper interface {
	Stop() bool
}

// ToasterOptions configures a Toaster.
type ToasterOptions struct {
	// DefaultTTL replaces a zero ttl in Publish. Defaults to DefaultToastTTL.
	DefaultTTL time.Duration
	Now        func() time.Time
	// AfterFunc schedules expiry; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) stopper
}

type toastSlot struct {
	toast model.Toast
	timer stopper
}

// Toaster keeps a single notification slot per client. Publishing replaces the
// slot and restarts its expiry timer. A timer only clears the slot it was
// started for, so a stale timer never removes a newer toast.
type Toaster struct {
	mu         sync.Mutex
	slots      map[string]*toastSlot
	seq        uint64
	defaultTTL time.Duration
	now        func() time.Time
	afterFunc  func(d time.Duration, f func()) stopper
}

// NewToaster creates an empty Toaster.
func NewToaster(opts ToasterOptions) *Toaster {
	t := &Toaster{
		slots:      make(map[string]*toastSlot),
		defaultTTL: opts.DefaultTTL,
		now:        opts.Now,
		afterFunc:  opts.AfterFunc,
	}
	if t.defaultTTL <= 0 {
		t.defaultTTL = DefaultToastTTL
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.afterFunc == nil {
		t.afterFunc = func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) }
	}
	return t
}

// Publish shows message to clientID, replacing whatever was displayed.
// A ttl of zero uses the default.
func (t *Toaster) Publish(clientID, message string, severity model.Severity, ttl time.Duration) model.Toast {
	if ttl <= 0 {
		ttl = t.defaultTTL
	}
	if !severity.Valid() {
		severity = model.SeverityInfo
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if slot, ok := t.slots[clientID]; ok && slot.timer != nil {
		slot.timer.Stop()
	}
	t.seq++
	toast := model.Toast{
		Seq:       t.seq,
		Message:   strings.TrimSpace(message),
		Severity:  severity,
		ExpiresAt: t.now().Add(ttl),
	}
	slot := &toastSlot{toast: toast}
	slot.timer = t.afterFunc(ttl, func() { t.expire(clientID, slot) })
	t.slots[clientID] = slot
	return toast
}

// Success publishes a success toast with the default ttl.
func (t *Toaster) Success(clientID, message string) model.Toast {
	return t.Publish(clientID, message, model.SeveritySuccess, 0)
}

// Error publishes an error toast with the default ttl.
func (t *Toaster) Error(clientID, message string) model.Toast {
	return t.Publish(clientID, message, model.SeverityError, 0)
}

// Current returns the toast displayed for clientID.
func (t *Toaster) Current(clientID string) (model.Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.slots[clientID]
	if !ok {
		return model.Toast{}, false
	}
	if !t.now().Before(slot.toast.ExpiresAt) {
		delete(t.slots, clientID)
		return model.Toast{}, false
	}
	return slot.toast, true
}

// Dismiss clears the slot for clientID and stops its timer.
func (t *Toaster) Dismiss(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if slot, ok := t.slots[clientID]; ok {
		if slot.timer != nil {
			slot.timer.Stop()
		}
		delete(t.slots, clientID)
	}
}

func (t *Toaster) expire(clientID string, slot *toastSlot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.slots[clientID] != slot {
		return
	}
	delete(t.slots, clientID)
}
