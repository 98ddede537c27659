package config

// DBConfig contains PostgreSQL database configuration.
// Only used when BACKEND=postgres.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"recruiter"`
	Password string `env:"PASSWORD"                envDefault:"recruiter"`
	Name     string `env:"NAME"                    envDefault:"recruiter"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig points at the Redis instance holding sessions and submission
// locks. URI may be a redis:// URL or host:port.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
}
