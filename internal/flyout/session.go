// Package flyout coordinates the panel's flyouts: settings panels that open
// and close through a timed transition, plain flyouts such as the lock
// screen, and confirmation dialogs.
//
// The transition delay is a timing contract with the presentation layer.
// Hooks that run after a settings panel opens or closes must not fire
// before the panel's animation has finished, so every phase change waits
// one full delay.
package flyout

import "time"

// DefaultTransitionDelay covers the settings panel's open/close animation.
const DefaultTransitionDelay = 300 * time.Millisecond

// Phase is where a settings session is in its open/close sequence.
type Phase int

const (
	Opening Phase = iota
	Open
	Closing
	Closed
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// Outcome is how a presented flyout or confirmation was resolved.
type Outcome int

const (
	Accepted Outcome = iota
	Dismissed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Dismissed:
		return "dismissed"
	default:
		return "failed"
	}
}

// Session is a snapshot of one settings panel's open request.
type Session struct {
	ID           string
	Topic        string
	Phase        Phase
	Blocking     bool
	HighPriority bool
}

// SettingsName is the flyout name a settings topic is presented under.
func SettingsName(topic string) string {
	return topic + "_settings"
}
