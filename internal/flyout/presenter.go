package flyout

// Request asks the presentation layer to show a flyout.
type Request struct {
	Name         string
	Blocking     bool
	HighPriority bool
}

// Dialog is the content of a confirmation.
type Dialog struct {
	Title    string
	Text     string
	Question string
}

// Presenter is the presentation layer's side of the protocol. Implementations
// must call done exactly once, on the scheduler's context.
type Presenter interface {
	// Present shows the flyout and resolves when the user accepts or
	// dismisses it, or it fails to show.
	Present(req Request, done func(Outcome))

	// Dismiss closes a presented flyout. Its pending Present resolves
	// with Dismissed.
	Dismiss(name string)

	// Confirm shows a confirmation dialog.
	Confirm(d Dialog, done func(Outcome))
}

// SettingsSaver persists settings after an accepted settings panel.
type SettingsSaver interface {
	SaveSettings()
}

// SaverFunc adapts a function to SettingsSaver.
type SaverFunc func()

// SaveSettings implements SettingsSaver.
func (f SaverFunc) SaveSettings() { f() }
