package flyout

import (
	"unicode"
	"unicode/utf8"
)

// Hook phases for HookName.
const (
	PhaseShown  = "Shown"
	PhaseHidden = "Hidden"
)

// Hook names that don't depend on the topic.
const (
	HookSettingsShown        = "onSettingsShown"
	HookSettingsHidden       = "onSettingsHidden"
	HookShutdownOrDisconnect = "onShutdownOrDisconnectFlyout"
)

// Dependent is any component that wants to hear about flyout transitions.
// It opts in per hook by implementing the interfaces below or TopicHooker.
type Dependent interface{}

// SettingsShownHook runs after any settings panel has finished opening.
type SettingsShownHook interface {
	OnSettingsShown()
}

// SettingsHiddenHook runs after any settings panel has finished closing.
type SettingsHiddenHook interface {
	OnSettingsHidden()
}

// ShutdownOrDisconnectHook runs when a shutdown or disconnect flyout is
// about to take over the screen.
type ShutdownOrDisconnectHook interface {
	OnShutdownOrDisconnectFlyout()
}

// TopicHooker supplies hooks by name, e.g. "onWirelessSettingsShown".
// The map is read at call time, so entries may change between calls.
type TopicHooker interface {
	TopicHooks() map[string]func()
}

// Hooks is a ready-made TopicHooker.
type Hooks map[string]func()

// TopicHooks implements TopicHooker.
func (h Hooks) TopicHooks() map[string]func() { return h }

// HookName derives a topic hook name: ("wireless", PhaseShown) gives
// "onWirelessSettingsShown".
func HookName(topic, phase string) string {
	return "on" + Capitalize(topic) + "Settings" + phase
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// lookup finds the hook called name on dep. Capability interfaces win over
// a TopicHooks entry of the same name so a dependent is never called twice.
func lookup(dep Dependent, name string) func() {
	switch name {
	case HookSettingsShown:
		if h, ok := dep.(SettingsShownHook); ok {
			return h.OnSettingsShown
		}
	case HookSettingsHidden:
		if h, ok := dep.(SettingsHiddenHook); ok {
			return h.OnSettingsHidden
		}
	case HookShutdownOrDisconnect:
		if h, ok := dep.(ShutdownOrDisconnectHook); ok {
			return h.OnShutdownOrDisconnectFlyout
		}
	}
	if h, ok := dep.(TopicHooker); ok {
		if fn := h.TopicHooks()[name]; fn != nil {
			return fn
		}
	}
	return nil
}
