package navigation

import "github.com/rileyhilliard/lui/internal/flyout"

// ShutdownPlan is what a shutdown request turns into.
type ShutdownPlan int

const (
	// ShutdownNow sends the shutdown command straight away.
	ShutdownNow ShutdownPlan = iota
	// ShutdownConfirm asks the user before sending it.
	ShutdownConfirm
	// ShutdownOptIn offers to shut down once the running print finishes
	// instead. No shutdown command is sent.
	ShutdownOptIn
)

func (p ShutdownPlan) String() string {
	switch p {
	case ShutdownConfirm:
		return "confirm"
	case ShutdownOptIn:
		return "opt-in"
	default:
		return "now"
	}
}

// PlanShutdown decides how to handle a shutdown request. A confirmed request
// during a print becomes an auto-shutdown offer unless auto-shutdown is
// already on.
func PlanShutdown(printing, autoShutdown, confirm bool) ShutdownPlan {
	switch {
	case !confirm:
		return ShutdownNow
	case printing && !autoShutdown:
		return ShutdownOptIn
	default:
		return ShutdownConfirm
	}
}

// Flyout names used by the facade.
const (
	FlyoutLogin                = "login"
	FlyoutLocalLock            = "locallock"
	FlyoutShutdownConfirmation = "shutdown_confirmation"
)

// Settings topics.
const (
	TopicMaintenance = "maintenance"
	TopicLogs        = "logs"
	TopicWireless    = "wireless"
)

// Confirmation dialogs for the system commands.
var (
	RestartDialog = flyout.Dialog{
		Title:    "Restart system service",
		Text:     "You are about to restart the background printer services.",
		Question: "Do you want to continue?",
	}
	RebootDialog = flyout.Dialog{
		Title:    "Reboot printer",
		Text:     "You are about to reboot the printer.",
		Question: "Do you want to continue?",
	}
	ShutdownDialog = flyout.Dialog{
		Title:    "Shutdown printer",
		Text:     "You are about to shutdown the printer.",
		Question: "Do you want to continue?",
	}
)
