package cli

import (
	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/flyout"
)

// Confirmer asks the user a yes/no question built from a dialog.
type Confirmer func(d flyout.Dialog) (bool, error)

// confirmer returns how a command should confirm: not at all with --yes,
// through a huh prompt on a terminal, and never silently otherwise.
func confirmer(yes bool, what string) (Confirmer, error) {
	if yes {
		return nil, nil
	}
	if !isInteractive() {
		return nil, errors.New(errors.ErrConfig,
			"Refusing to "+what+" without confirmation",
			"Pass --yes to skip the prompt when not running in a terminal.")
	}
	return huhConfirm, nil
}

func huhConfirm(d flyout.Dialog) (bool, error) {
	var ok bool
	desc := d.Text
	if d.Question != "" {
		desc += "\n" + d.Question
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(d.Title).
				Description(desc).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// promptCode asks for the lock code without echoing it.
func promptCode() (string, error) {
	var code string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Lock code").
				EchoMode(huh.EchoModePassword).
				Value(&code),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}
