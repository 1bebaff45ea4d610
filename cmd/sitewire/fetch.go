package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fetchPrefetch bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a page through the response cache",
	Long: `Fetch a page from the site. Repeat fetches of the same URL are served
from the response cache without a network round trip.

With --prefetch the cache is warmed but no content is rendered.`,
	Args: cobra.ExactArgs(1),
	Run:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchPrefetch, "prefetch", false, "Warm the cache without rendering the page")
}

func runFetch(cmd *cobra.Command, args []string) {
	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := cmd.Context()
	if fetchPrefetch {
		result, err := s.Prefetch(ctx, args[0])
		if err != nil {
			os.Exit(1)
		}
		fmt.Printf("prefetched %s (%d, %s)\n", args[0], result.StatusCode, result.ContentType)
		return
	}

	result, err := s.Load(ctx, args[0])
	if err != nil {
		os.Exit(1)
	}
	if result.FromCache {
		fmt.Fprintln(os.Stderr, "(served from cache)")
	}
}
