// Command todo is the interactive terminal client for a todod server. It
// keeps a local view of the server's collection and reconciles every edit
// against the REST API before showing it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"todocore/internal/client"
	"todocore/internal/config"
	"todocore/internal/syncer"
	"todocore/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	oneShot := fs.Bool("list", false, "print the current todos and exit")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	store := client.New(cfg.BaseURL)

	if *oneShot {
		todos, err := store.List(context.Background())
		if err != nil {
			return err
		}
		fmt.Print(ui.RenderSnapshot(todos))
		return nil
	}

	// Failures surface in the UI itself, so the synchronizer keeps its
	// default silent logger rather than writing over the alt screen.
	return ui.Run(syncer.New(store))
}
