package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"

	redisadapter "github.com/navix1456/recruiter-platform/internal/adapters/redis"
	"github.com/navix1456/recruiter-platform/internal/bootstrap"
	"github.com/navix1456/recruiter-platform/internal/util"
)

type listSessionsOptions struct {
	UserID string
	Limit  int
}

type clearSessionsOptions struct {
	UserID string
	DryRun bool
	Yes    bool
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsFlags(args)
	if err != nil {
		return err
	}
	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		store := redisadapter.NewSessionStoreWithPrefix(client, bootstrap.SessionKeyPrefix)
		sessions, listErr := store.List(ctx, opts.UserID, opts.Limit)
		if listErr != nil {
			return listErr
		}
		return printSessions(os.Stdout, sessions)
	})
}

func printSessions(w io.Writer, sessions []redisadapter.StoredSession) error {
	if len(sessions) == 0 {
		return writeln(w, "(no sessions)")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "SESSION\tUSER\tEMAIL\tPROVIDER\tTTL"); err != nil {
		return err
	}
	for _, s := range sessions {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Session.ID, s.Session.UserID, s.Session.Email, s.Session.Provider, util.FormatTTL(s.TTL)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush session table: %w", err)
	}
	return writef(w, "\n%d session(s)\n", len(sessions))
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(os.Stdin, os.Stdout, clearSessionsConfirmOptions{opts}, "sign out"); confirmErr != nil {
		return confirmErr
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		store := redisadapter.NewSessionStoreWithPrefix(client, bootstrap.SessionKeyPrefix)
		if opts.DryRun {
			sessions, listErr := store.List(ctx, opts.UserID, 0)
			if listErr != nil {
				return listErr
			}
			return writef(os.Stdout, "Dry run: %d session(s) would be removed\n", len(sessions))
		}
		removed, purgeErr := store.Purge(ctx, opts.UserID)
		if purgeErr != nil {
			return purgeErr
		}
		cmdCtx.Logger.InfoContext(ctx, "sessions cleared", "user_id", opts.UserID, "removed", removed)
		return writef(os.Stdout, "Removed %d session(s)\n", removed)
	})
}

type clearSessionsConfirmOptions struct {
	opts clearSessionsOptions
}

func (c clearSessionsConfirmOptions) IsDryRun() bool { return c.opts.DryRun }
func (c clearSessionsConfirmOptions) IsYes() bool    { return c.opts.Yes }

func (c clearSessionsConfirmOptions) GetWarning() string {
	if c.opts.UserID == "" {
		return "WARNING: this will sign out every recruiter."
	}
	return "WARNING: this will sign out the recruiter on every device."
}

func (c clearSessionsConfirmOptions) GetTarget() string {
	if c.opts.UserID == "" {
		return "all recruiters"
	}
	return fmt.Sprintf("recruiter %q", c.opts.UserID)
}

func parseListSessionsFlags(args []string) (listSessionsOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listSessionsOptions{}
	fs.StringVar(&opts.UserID, "user-id", "", "Only list sessions for this recruiter")
	fs.IntVar(&opts.Limit, "limit", 100, "Maximum number of sessions to show (0 for all)")

	if err := fs.Parse(args); err != nil {
		return listSessionsOptions{}, err
	}
	if opts.Limit < 0 {
		return listSessionsOptions{}, errors.New("--limit must be zero or greater")
	}
	return opts, nil
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := clearSessionsOptions{}
	fs.StringVar(&opts.UserID, "user-id", "", "Only clear sessions for this recruiter")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report how many sessions would be removed")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}
	return opts, nil
}
