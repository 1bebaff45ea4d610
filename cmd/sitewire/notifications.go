package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notify"},
	Short:   "Poll the site for pending notifications",
	Run:     runNotifications,
}

func runNotifications(cmd *cobra.Command, args []string) {
	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := s.PollNotifications(cmd.Context()); err != nil {
		os.Exit(1)
	}
}
