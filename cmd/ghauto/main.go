// Package main provides the ghauto CLI. Each invocation starts a browser,
// signs in when the command needs it, runs one action and closes the
// browser again.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/entrhq/ghauto/pkg/types"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

var globals globalOptions

var rootCmd = &cobra.Command{
	Use:           "ghauto",
	Short:         "Automate GitHub accounts and stars through a headless browser",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Long = Green.Render("ghauto") + " " + Cyan.Render(version) + "\n" +
		Dim.Render("Sign up, sign in, verify email and star repositories on GitHub by driving a real browser.")
	globals.bind(rootCmd.PersistentFlags())
}

func main() {
	// Create context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		reportError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
	stop()
}

// reportError prints err with the run id that tags this run's log lines.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, Red.Render("error:"), err)
	detail := "run " + logging.GetRunID()
	if dir, dirErr := logging.GetLogDirectory(); dirErr == nil {
		detail += ", logs in " + dir
	}
	fmt.Fprintln(w, Dim.Render(detail))
}

// exitCode maps an error kind onto the process exit status.
func exitCode(err error) int {
	switch types.KindOf(err) {
	case types.KindPrecondition:
		return 2
	case types.KindElementTimeout:
		return 3
	case types.KindVerificationNotFound:
		return 4
	case types.KindResolutionFailure:
		return 5
	default:
		return 1
	}
}
