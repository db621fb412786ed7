// Package ui is the printer panel's terminal front end, built on Bubble Tea.
//
// # Components Overview
//
//	Model             - The panel: status, lock screen, flyouts and toasts
//	Presenter         - Flyout stack and confirmation queue the model renders
//	ProgramScheduler  - loop.Scheduler that runs callbacks on the update loop
//	Spinner           - Writer-based status indicator for one-shot commands
//	RenderStatusTable - Aligned status rows for the status command
//	RenderHeader      - Title, printer and push connection line
//
// # Scheduling
//
// The controllers behind the panel are single-threaded. ProgramScheduler
// queues their callbacks and wakes the program with a drainMsg; the model
// runs the queue inside Update, so every callback sees the same state the
// view renders. Tests drive the same model with loop.Manual instead.
//
// # Key Handling
//
// Keys go to an open confirmation first, then to the focused flyout, then
// to the main screen. The lock screen only accepts digits, deletion and
// enter. Blocking flyouts ignore esc.
//
// # Color Scheme
//
//	ColorSuccess   - Successful operations, unlocked
//	ColorError     - Failures, cooldowns
//	ColorWarning   - Locked, pending warnings
//	ColorInfo      - Pending infos
//	ColorMuted     - Secondary text, dimmed screen under an overlay
//	ColorSecondary - Spinners
package ui
