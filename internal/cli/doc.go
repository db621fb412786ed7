// Package cli implements the lui command-line interface.
//
// Each Cobra command is a thin shell: it loads the config, builds a device
// client through newAPI and hands off to a plain function that takes an
// io.Writer and a device.API. Tests call those functions directly with a
// fake API or a simulator.
//
// # Command Structure
//
// The root command "lui" opens the panel. Subcommands drive the printer
// without it:
//
//	lui                     - Open the interactive panel
//	lui status              - Lock, print and auto-shutdown state
//	lui lock | unlock       - Lock now, or unlock with the lock code
//	lui autolock on|off     - Change the auto-lock setting
//	lui restart|reboot|shutdown - Power actions, confirmed like the panel does
//	lui simulate            - Serve an in-memory printer
//	lui config [init|set|show] - Manage .lui.yaml
//
// # Flag Handling
//
// Global flags (--config, --verbose, --quiet, --no-color, --json) live on
// the root command. --json switches every command to the JSON envelope in
// json.go and implies --quiet.
//
// Confirmations go through a Confirmer. --yes, or a non-terminal stdin,
// decides without prompting; the latter refuses rather than guessing.
package cli
