package bootstrap

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navix1456/recruiter-platform/config"
)

func TestPostgresDSN_EscapesCredentials(t *testing.T) {
	dsn := PostgresDSN(config.DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "recruiter",
		Password: "p@ss/word?",
		Name:     "jobs",
		SSLMode:  "require",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5433", u.Host)
	assert.Equal(t, "/jobs", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss/word?", pw)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestConnectDB_SupabaseBackendSkipsPostgres(t *testing.T) {
	db, err := ConnectDB(context.Background(), DatabaseConfig{
		App: &config.AppConfig{Backend: config.BackendSupabase},
	})
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestConnectDB_RequiresConfig(t *testing.T) {
	_, err := ConnectDB(context.Background(), DatabaseConfig{})
	require.Error(t, err)
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.RedisConfig
		addr     string
		password string
		db       int
		read     time.Duration
		wantErr  bool
	}{
		{
			name: "bare address",
			cfg:  config.RedisConfig{URI: "cache:6379", Password: "secret"},
			addr: "cache:6379", password: "secret", read: redisIOTimeout,
		},
		{
			name: "url with db and password",
			cfg:  config.RedisConfig{URI: "redis://:fromurl@cache:6380/3", Password: "ignored"},
			addr: "cache:6380", password: "fromurl", db: 3, read: redisIOTimeout,
		},
		{
			name: "url timeout kept",
			cfg:  config.RedisConfig{URI: "redis://cache:6379/0?read_timeout=2s"},
			addr: "cache:6379", read: 2 * time.Second,
		},
		{name: "empty", cfg: config.RedisConfig{URI: "  "}, wantErr: true},
		{name: "bad url", cfg: config.RedisConfig{URI: "redis://cache:6379/notadb"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := RedisOptions(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, opts.Addr)
			assert.Equal(t, tt.password, opts.Password)
			assert.Equal(t, tt.db, opts.DB)
			assert.Equal(t, tt.read, opts.ReadTimeout)
			assert.Equal(t, redisIOTimeout, opts.WriteTimeout)
			assert.Equal(t, redisDialTimeout, opts.DialTimeout)
			assert.Equal(t, redisClientName, opts.ClientName)
		})
	}
}

func TestConnectRedis_Unreachable(t *testing.T) {
	_, err := ConnectRedis(context.Background(), DatabaseConfig{
		App: &config.AppConfig{Redis: config.RedisConfig{URI: "127.0.0.1:1"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
