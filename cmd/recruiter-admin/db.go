package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/navix1456/recruiter-platform/internal/adapters/localauth"
	"github.com/navix1456/recruiter-platform/internal/bootstrap"
	"github.com/navix1456/recruiter-platform/internal/data"
	"github.com/navix1456/recruiter-platform/internal/devseed"
	"github.com/navix1456/recruiter-platform/internal/service"
)

type migrateOptions struct {
	Timeout time.Duration
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
	Email       string
	Password    string
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return migrateErr
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)

	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema")
	if err != nil {
		return err
	}

	confirmOpts := dbResetConfirmOptions{
		yes:    opts.Yes,
		target: target,
	}
	if remote {
		confirmOpts.remoteHost = cmdCtx.Config.Postgres.Host
	}
	if confirmErr := confirmAction(os.Stdin, os.Stdout, confirmOpts, "reset database schema"); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if resetErr := cmdCtx.resetDatabase(ctx, db); resetErr != nil {
			return resetErr
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return migrateErr
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if seedErr := seed(ctx, cmdCtx, db, devseed.Account{}); seedErr != nil {
				return seedErr
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}

	if _, guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
		return guardErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return migrateErr
		}

		cmdCtx.Logger.Info("seeding development data")
		if seedErr := seed(ctx, cmdCtx, db, devseed.Account{Email: opts.Email, Password: opts.Password}); seedErr != nil {
			return seedErr
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

// localStack is the self-hosted backend pieces the admin commands write through.
type localStack struct {
	recruiters *data.RecruiterRepo
	identity   *localauth.Identity
	objects    *data.ObjectRepo
}

func newLocalStack(cmdCtx *commandContext, db *sql.DB) (*localStack, error) {
	cfg := &cmdCtx.Config
	signer, err := bootstrap.NewSigner(cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	recruiters := data.NewRecruiterRepo(db)
	identity, err := localauth.New(localauth.Options{
		Recruiters: recruiters,
		Signer:     signer,
		TokenTTL:   cfg.Auth.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create local identity: %w", err)
	}
	return &localStack{
		recruiters: recruiters,
		identity:   identity,
		objects: data.NewObjectRepo(db, data.ObjectRepoOptions{
			Signer:   signer,
			BaseURL:  cfg.HTTP.BaseURL,
			MaxBytes: cfg.HTTP.MaxUploadBytes,
		}),
	}, nil
}

func seed(ctx context.Context, cmdCtx *commandContext, db *sql.DB, acct devseed.Account) error {
	stack, err := newLocalStack(cmdCtx, db)
	if err != nil {
		return err
	}
	submissions := service.NewSubmissionService(service.SubmissionServiceOptions{
		Applications: data.NewApplicationRepo(db, data.RealTimeProvider{}),
		Objects:      stack.objects,
		Config: service.SubmissionConfig{
			Bucket: cmdCtx.Config.Storage.Bucket,
			Logger: cmdCtx.Logger,
		},
	})

	res, err := devseed.Run(ctx, devseed.Options{
		Repos: devseed.Repos{
			Recruiters: stack.recruiters,
			Jobs:       data.NewJobRepo(db, data.RealTimeProvider{}),
			Hasher:     stack.identity,
		},
		Submissions: submissions,
		Account:     acct,
	}, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("seed data: %w", err)
	}

	email := acct.Email
	if email == "" {
		email = devseed.DefaultEmail
	}
	return writef(os.Stdout, "Seeded recruiter %s (%s): %d new jobs, %d new applications\n",
		email, res.RecruiterID, res.Jobs, res.Applications)
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseDBResetFlags(args []string) (dbResetOptions, error) {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbResetOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for reset operations to complete")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	fs.BoolVar(&opts.Seed, "seed", false, "Run database seeding after reset completes")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false,
		"Permit running against database hosts that do not look local")

	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, err
	}
	if opts.Timeout <= 0 {
		return dbResetOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbSeedOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for seeding to complete")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false,
		"Permit running against database hosts that do not look local")
	fs.StringVar(&opts.Email, "email", devseed.DefaultEmail, "Demo recruiter email")
	fs.StringVar(&opts.Password, "password", devseed.DefaultPassword, "Demo recruiter password")

	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}
	if opts.Timeout <= 0 {
		return dbSeedOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}
	if err := requireRemoteHostConfirmation(os.Stdin, os.Stderr, action, host); err != nil {
		return true, err
	}
	return true, nil
}

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	if cmdCtx == nil {
		return errors.New("command context is required")
	}

	statements := resetStatements(cmdCtx.Config.Postgres.User)
	for _, stmt := range statements {
		if cmdCtx.Logger != nil {
			cmdCtx.Logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func resetStatements(user string) []string {
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user = strings.TrimSpace(user); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(user))
	}
	return statements
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func requireRemoteHostConfirmation(in io.Reader, out io.Writer, action, host string) error {
	if err := writef(out,
		"\nWARNING: database host %q does not look like a local address.\nThis operation will %s.\n",
		host, action,
	); err != nil {
		return fmt.Errorf("print remote host warning: %w", err)
	}
	if err := writef(out, "Type %q to continue or press enter to abort: ", host); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	resp, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.New("aborted by user")
	}
	if strings.TrimSpace(resp) != host {
		if writeErr := writeln(out, "\nRemote safeguard check failed; aborting."); writeErr != nil {
			return fmt.Errorf("print remote safeguard failure: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	return nil
}

type confirmOptions interface {
	IsDryRun() bool
	IsYes() bool
	GetTarget() string
	GetWarning() string
}

type dbResetConfirmOptions struct {
	yes        bool
	target     string
	remoteHost string
}

func (d dbResetConfirmOptions) IsDryRun() bool { return false }

// IsYes never skips the prompt for a remote host.
func (d dbResetConfirmOptions) IsYes() bool {
	if d.remoteHost != "" {
		return false
	}
	return d.yes
}

func (d dbResetConfirmOptions) GetWarning() string {
	warning := "WARNING: this will drop and recreate the public schema for the configured database."
	if d.remoteHost != "" {
		warning += fmt.Sprintf(" Host %q appears to be remote; double-check before proceeding.", d.remoteHost)
	}
	return warning
}

func (d dbResetConfirmOptions) GetTarget() string { return d.target }

func confirmAction(in io.Reader, out io.Writer, opts confirmOptions, actionType string) error {
	if opts.IsDryRun() || opts.IsYes() {
		return nil
	}

	if err := writeln(out, opts.GetWarning()); err != nil {
		return fmt.Errorf("print confirmation warning: %w", err)
	}
	if target := opts.GetTarget(); target != "" {
		if err := writef(out, "About to %s for %s.\n", actionType, target); err != nil {
			return fmt.Errorf("print confirmation message: %w", err)
		}
	}
	if err := write(out, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}

	resp, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}
