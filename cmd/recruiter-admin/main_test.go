package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/navix1456/recruiter-platform/internal/adapters/redis"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
)

func TestPrintUsageListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))

	out := buf.String()
	assert.Contains(t, out, "Usage: recruiter-admin <command>")
	prev := -1
	for _, name := range []string{"clear-sessions", "create-recruiter", "db-reset", "db-seed", "list-sessions", "migrate"} {
		idx := strings.Index(out, "  "+name)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, prev, name)
		prev = idx
	}
}

func TestParseCreateRecruiterFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantErr  string
		wantPass string
	}{
		{name: "flags", args: []string{"-email", " Ada@Example.com ", "-password", "secret1"}, wantPass: "secret1"},
		{name: "stdin", args: []string{"-email", "ada@example.com", "-password-stdin"}, stdin: "from-stdin\n", wantPass: "from-stdin"},
		{name: "stdin without newline", args: []string{"-email", "ada@example.com", "-password-stdin"}, stdin: "abc123", wantPass: "abc123"},
		{name: "missing email", args: []string{"-password", "secret1"}, wantErr: "--email"},
		{name: "invalid email", args: []string{"-email", "nope", "-password", "secret1"}, wantErr: "--email"},
		{name: "missing password", args: []string{"-email", "ada@example.com"}, wantErr: "required"},
		{
			name:    "both password sources",
			args:    []string{"-email", "ada@example.com", "-password", "x", "-password-stdin"},
			wantErr: "not both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseCreateRecruiterFlags(tt.args, strings.NewReader(tt.stdin))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", opts.Email)
			assert.Equal(t, tt.wantPass, opts.Password)
		})
	}
}

func TestParseDBFlags(t *testing.T) {
	reset, err := parseDBResetFlags([]string{"-yes", "-seed"})
	require.NoError(t, err)
	assert.True(t, reset.Yes)
	assert.True(t, reset.Seed)
	assert.Equal(t, defaultMigrationTimeout, reset.Timeout)

	_, err = parseMigrateFlags([]string{"-timeout", "0s"})
	require.Error(t, err)

	seedOpts, err := parseDBSeedFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "demo@recruiter.local", seedOpts.Email)
}

func TestIsLikelyRemoteHost(t *testing.T) {
	for host, want := range map[string]bool{
		"":                  false,
		"localhost":         false,
		"127.0.0.1":         false,
		"::1":               false,
		"db.local":          false,
		"10.0.0.5":          true,
		"db.prod.internal":  true,
		"postgres.example.": true,
	} {
		assert.Equal(t, want, isLikelyRemoteHost(host), host)
	}
}

func TestResetStatements(t *testing.T) {
	assert.Len(t, resetStatements(""), 3)
	assert.Len(t, resetStatements("public"), 3)
	stmts := resetStatements(`we"ird`)
	require.Len(t, stmts, 4)
	assert.Equal(t, `GRANT ALL ON SCHEMA public TO "we""ird"`, stmts[3])
}

func TestConfirmAction(t *testing.T) {
	opts := dbResetConfirmOptions{target: "database \"recruiter\" on localhost:5432"}

	var out bytes.Buffer
	require.NoError(t, confirmAction(strings.NewReader("y\n"), &out, opts, "reset database schema"))
	assert.Contains(t, out.String(), "About to reset database schema for database")

	require.Error(t, confirmAction(strings.NewReader("\n"), &bytes.Buffer{}, opts, "reset"))

	opts.yes = true
	require.NoError(t, confirmAction(strings.NewReader(""), &bytes.Buffer{}, opts, "reset"))

	// A remote host always prompts, even with --yes.
	opts.remoteHost = "db.prod.internal"
	require.Error(t, confirmAction(strings.NewReader(""), &bytes.Buffer{}, opts, "reset"))
}

func TestRequireRemoteHostConfirmation(t *testing.T) {
	require.NoError(t, requireRemoteHostConfirmation(strings.NewReader("db.prod\n"), &bytes.Buffer{}, "seed", "db.prod"))
	require.Error(t, requireRemoteHostConfirmation(strings.NewReader("yes\n"), &bytes.Buffer{}, "seed", "db.prod"))
}

func TestClearSessionsConfirmTarget(t *testing.T) {
	assert.Equal(t, "all recruiters", clearSessionsConfirmOptions{}.GetTarget())
	assert.Equal(t, `recruiter "u1"`, clearSessionsConfirmOptions{opts: clearSessionsOptions{UserID: "u1"}}.GetTarget())
	assert.True(t, clearSessionsConfirmOptions{opts: clearSessionsOptions{DryRun: true}}.IsDryRun())
}

func TestPrintSessions(t *testing.T) {
	var empty bytes.Buffer
	require.NoError(t, printSessions(&empty, nil))
	assert.Equal(t, "(no sessions)\n", empty.String())

	var buf bytes.Buffer
	require.NoError(t, printSessions(&buf, []redisadapter.StoredSession{{
		Session: domainauth.Session{ID: "s1", UserID: "u1", Email: "ada@example.com", Provider: domainauth.ProviderPassword},
		TTL:     90 * time.Second,
	}}))
	out := buf.String()
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "1 session(s)")
}

func TestParseListSessionsFlags(t *testing.T) {
	opts, err := parseListSessionsFlags([]string{"-user-id", "u1"})
	require.NoError(t, err)
	assert.Equal(t, listSessionsOptions{UserID: "u1", Limit: 100}, opts)

	_, err = parseListSessionsFlags([]string{"-limit", "-1"})
	require.Error(t, err)
}
