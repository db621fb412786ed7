// Package notify holds the panel's notifications: short-lived toasts, and
// warnings and infos that stay pending until acknowledged. Pending items
// feed the overlay signal.
//
// A Center is owned by the scheduler context and is not safe for concurrent use.
package notify

import (
	"sort"
	"time"

	"github.com/rileyhilliard/lui/internal/loop"
)

// Level is a toast's severity.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a transient notification.
type Toast struct {
	ID    int
	Level Level
	Title string
	Text  string
}

// Item is a pending warning or info, keyed so the same condition isn't
// raised twice.
type Item struct {
	Key   string
	Title string
	Text  string
}

// DefaultToastDuration is how long a toast stays up when the Center is
// created with a zero duration.
const DefaultToastDuration = 4 * time.Second

// Center collects notifications and tells observers when anything changes.
type Center struct {
	sched    loop.Scheduler
	duration time.Duration

	nextID    int
	toasts    []Toast
	expiry    map[int]loop.Timer
	warnings  map[string]Item
	infos     map[string]Item
	observers []func()
}

// NewCenter creates a Center whose toasts expire after duration.
func NewCenter(sched loop.Scheduler, duration time.Duration) *Center {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Center{
		sched:    sched,
		duration: duration,
		expiry:   make(map[int]loop.Timer),
		warnings: make(map[string]Item),
		infos:    make(map[string]Item),
	}
}

// Toast shows a transient notification and returns its ID.
func (c *Center) Toast(level Level, title, text string) int {
	c.nextID++
	id := c.nextID
	c.toasts = append(c.toasts, Toast{ID: id, Level: level, Title: title, Text: text})
	c.expiry[id] = c.sched.After(c.duration, func() { c.DismissToast(id) })
	c.changed()
	return id
}

// DismissToast removes a toast before it expires. Unknown IDs are ignored.
func (c *Center) DismissToast(id int) {
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			loop.StopTimer(c.expiry[id])
			delete(c.expiry, id)
			c.changed()
			return
		}
	}
}

// Toasts returns the visible toasts, oldest first.
func (c *Center) Toasts() []Toast {
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Warn raises a pending warning. Raising an existing key updates its text.
func (c *Center) Warn(key, title, text string) {
	c.warnings[key] = Item{Key: key, Title: title, Text: text}
	c.changed()
}

// Inform raises a pending info.
func (c *Center) Inform(key, title, text string) {
	c.infos[key] = Item{Key: key, Title: title, Text: text}
	c.changed()
}

// Acknowledge clears a pending warning or info. It reports whether anything
// was cleared.
func (c *Center) Acknowledge(key string) bool {
	_, w := c.warnings[key]
	_, i := c.infos[key]
	if !w && !i {
		return false
	}
	delete(c.warnings, key)
	delete(c.infos, key)
	c.changed()
	return true
}

// Pending returns the number of pending warnings and infos.
func (c *Center) Pending() (warnings, infos int) {
	return len(c.warnings), len(c.infos)
}

// Warnings returns pending warnings sorted by key.
func (c *Center) Warnings() []Item {
	return sorted(c.warnings)
}

// Infos returns pending infos sorted by key.
func (c *Center) Infos() []Item {
	return sorted(c.infos)
}

// OnChange registers fn to run after every change.
func (c *Center) OnChange(fn func()) {
	c.observers = append(c.observers, fn)
}

func (c *Center) changed() {
	for _, fn := range c.observers {
		fn()
	}
}

func sorted(m map[string]Item) []Item {
	out := make([]Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
