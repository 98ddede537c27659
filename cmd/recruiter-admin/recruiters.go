package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

type createRecruiterOptions struct {
	Email         string
	Password      string
	PasswordStdin bool
	Timeout       time.Duration
}

func runCreateRecruiter(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateRecruiterFlags(args, os.Stdin)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		stack, stackErr := newLocalStack(cmdCtx, db)
		if stackErr != nil {
			return stackErr
		}
		hash, hashErr := stack.identity.HashPassword(opts.Password)
		if hashErr != nil {
			return hashErr
		}
		rec, createErr := stack.recruiters.Create(ctx, opts.Email, hash)
		if createErr != nil {
			if apperrors.IsConflict(createErr) {
				return fmt.Errorf("recruiter %s already exists", opts.Email)
			}
			return fmt.Errorf("create recruiter: %w", createErr)
		}
		cmdCtx.Logger.InfoContext(ctx, "recruiter created", "recruiter_id", rec.ID, "email", rec.Email)
		return writef(os.Stdout, "Created recruiter %s (%s)\n", rec.Email, rec.ID)
	})
}

func parseCreateRecruiterFlags(args []string, stdin io.Reader) (createRecruiterOptions, error) {
	fs := flag.NewFlagSet("create-recruiter", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := createRecruiterOptions{}
	fs.StringVar(&opts.Email, "email", "", "Recruiter email address (required)")
	fs.StringVar(&opts.Password, "password", "", "Recruiter password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the password from the first line of stdin")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Maximum duration for the command")

	if err := fs.Parse(args); err != nil {
		return createRecruiterOptions{}, err
	}

	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))
	if !model.ValidEmail(opts.Email) {
		return createRecruiterOptions{}, errors.New("--email must be a valid email address")
	}
	if opts.PasswordStdin {
		if opts.Password != "" {
			return createRecruiterOptions{}, errors.New("use either --password or --password-stdin, not both")
		}
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return createRecruiterOptions{}, fmt.Errorf("read password: %w", err)
		}
		opts.Password = strings.TrimRight(line, "\r\n")
	}
	if opts.Password == "" {
		return createRecruiterOptions{}, errors.New("--password or --password-stdin is required")
	}
	if opts.Timeout <= 0 {
		return createRecruiterOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}
