// Command portal runs the email-portal client: a local JSON server in front
// of the remote job-application API, plus commands to manage the stored
// session from a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: portal <command> [flags]

commands:
  serve    run the local portal server
  login    log in and store the session
  logout   clear the stored session
  whoami   print the logged-in user
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1], os.Args[2:])
	stop()

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "portal:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("unknown command")

func run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "serve":
		return runServe(ctx, args)
	case "login":
		return runLogin(ctx, args, os.Stdout)
	case "logout":
		return runLogout(ctx, args, os.Stdout)
	case "whoami":
		return runWhoami(ctx, args, os.Stdout)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w %q", errUsage, cmd)
	}
}
