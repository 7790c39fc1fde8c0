package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	verrors "github.com/sukiejosh/vitedge/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦╦╔╦╗╔═╗╔╦╗╔═╗╔═╗
  ╚╗╔╝║ ║ ║╣  ║║║ ╦║╣
   ╚╝ ╩ ╩ ╚═╝═╩╝╚═╝╚═╝
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitedge",
		Short: "Edge-side rendering for Vite applications",
		Long: `Vitedge serves Vite applications with edge functions.

Functions live in a file tree next to your app and become routes
automatically:

  • Page props from functions/props/
  • API endpoints from functions/api/
  • Dynamic pages with [param] and [...catchAll] file names
  • Dev server with live function reload
  • Static deploy to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		devCmd(),
		routesCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var verr *verrors.Error
		if errors.As(err, &verr) {
			fmt.Fprint(os.Stderr, verr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the Vitedge ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
