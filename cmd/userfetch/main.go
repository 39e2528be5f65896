// Command userfetch prints a user and the full directory listing from the
// external user API.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raftlab/userdir/internal/bootstrap"
	"github.com/raftlab/userdir/internal/config"
	"github.com/raftlab/userdir/internal/logging"
	"github.com/raftlab/userdir/internal/model"
)

// featuredUserID is the user looked up before the full listing.
const featuredUserID = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout carries only the listing.
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := run(ctx, os.Stdout, app.Directory); err != nil {
		fmt.Fprintf(os.Stdout, "An error occurred: %s\n", err)
	}
}

type userDirectory interface {
	GetUserByID(ctx context.Context, id int) (model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
}

// run fetches one user, then every user, printing each to out.
func run(ctx context.Context, out io.Writer, dir userDirectory) error {
	fmt.Fprintf(out, "Fetching single user with ID %d...\n", featuredUserID)
	user, err := dir.GetUserByID(ctx, featuredUserID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, user)

	fmt.Fprintln(out, "\nFetching all users...")
	users, err := dir.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintln(out, u)
	}
	return nil
}
