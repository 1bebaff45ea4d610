package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the site",
	Args:  cobra.MinimumNArgs(1),
	Run:   runSearch,
}

func runSearch(cmd *cobra.Command, args []string) {
	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := s.Search(cmd.Context(), strings.Join(args, " ")); err != nil {
		os.Exit(1)
	}
}
