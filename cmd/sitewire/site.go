package main

import (
	"os"

	"github.com/sitewire/sitewire/internal/notify"
	"github.com/sitewire/sitewire/internal/present"
	"github.com/sitewire/sitewire/internal/session"
)

// newSession builds a session for interactive commands: page output on
// stdout, toasts on stderr.
func newSession() (*session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	interactive := isTerminal(os.Stderr)
	return session.New(cfg, newLogger(),
		session.WithPresenter(present.NewTerminal(os.Stdout, cfg.Site.ReducedMotion)),
		session.WithToasterFactory(func() notify.Toaster {
			return notify.NewTerminalToaster(os.Stderr, interactive)
		}),
	)
}
