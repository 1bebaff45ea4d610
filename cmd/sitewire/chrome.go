package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var chromeCmd = &cobra.Command{
	Use:   "chrome",
	Short: "Show the site navbar and favicon snippets",
	Run:   runChrome,
}

func runChrome(cmd *cobra.Command, args []string) {
	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c, err := s.Chrome(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", c.Navbar.BrandName)
	for _, link := range c.Navbar.Links {
		fmt.Printf("  %-20s %s\n", link.Text, link.URL)
	}
	fmt.Printf("  [%s] %s\n", c.Navbar.ButtonText, c.Navbar.ButtonURL)
	if c.Favicon.Icon != "" {
		fmt.Printf("favicon: %s\n", c.Favicon.Icon)
	}
}
