package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var submitFields []string

var submitCmd = &cobra.Command{
	Use:   "submit <form-id>",
	Short: "Submit a form and show the routed outcome",
	Long: `Submit a form to the site. Validation errors are rendered per field
with focus on the first errored field; a successful submission resets
the form and shows the server's confirmation message.

Example:
  sitewire submit newsletter --field email=alice@example.org`,
	Args: cobra.ExactArgs(1),
	Run:  runSubmit,
}

func init() {
	submitCmd.Flags().StringArrayVar(&submitFields, "field", nil, "Form field as name=value (repeatable)")
}

func runSubmit(cmd *cobra.Command, args []string) {
	fields := make(map[string]string, len(submitFields))
	for _, f := range submitFields {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid --field %q, want name=value\n", f)
			os.Exit(1)
		}
		fields[name] = value
	}

	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := s.SubmitForm(cmd.Context(), args[0], fields); err != nil {
		os.Exit(1)
	}
}
