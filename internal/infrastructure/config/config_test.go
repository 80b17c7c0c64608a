package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearTryccoEnv unsets every TRYCCO_ variable for the duration of the test.
func clearTryccoEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "TRYCCO_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearTryccoEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "trycco-storefront", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DefaultSiteTitle, cfg.App.SiteTitle)
	assert.Equal(t, "http://localhost:8080", cfg.App.BaseURL)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "trycco", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.LandingTTL)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
	assert.False(t, cfg.Mail.Enabled)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "@monthly", cfg.Scheduler.MonthlyResetSpec)
	assert.True(t, cfg.HTTP.RateLimitEnabled)
	assert.Equal(t, 10, cfg.HTTP.OrderRateLimitRequests)
	assert.Equal(t, "http://localhost:8080/media", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "trycco-storefront", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.Swagger.Enabled)
	assert.False(t, cfg.Swagger.RequireAuth)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	t.Run("reads TRYCCO_ variables", func(t *testing.T) {
		clearTryccoEnv(t)
		t.Setenv("TRYCCO_APP_PORT", "9000")
		t.Setenv("TRYCCO_APP_BASE_URL", "https://shop.example.com/")
		t.Setenv("TRYCCO_DATABASE_DRIVER", "sqlite")
		t.Setenv("TRYCCO_DATABASE_SQLITE_PATH", "/tmp/shop.db")
		t.Setenv("TRYCCO_MAIL_ENABLED", "true")
		t.Setenv("TRYCCO_MAIL_HOST", "smtp.example.com")
		t.Setenv("TRYCCO_MAIL_TIMEOUT", "3s")
		t.Setenv("TRYCCO_CACHE_DRIVER", "redis")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "https://shop.example.com", cfg.App.BaseURL)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/tmp/shop.db", cfg.Database.SQLitePath)
		assert.True(t, cfg.Mail.Enabled)
		assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
		assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
		assert.Equal(t, "redis", cfg.Cache.Driver)
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearTryccoEnv(t)
		t.Setenv("TRYCCO_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle conns exceed open conns",
			env:     map[string]string{"TRYCCO_DATABASE_MAX_OPEN_CONNS": "10", "TRYCCO_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"TRYCCO_DATABASE_DRIVER": "mysql"},
			wantErr: "database.driver",
		},
		{
			name:    "unknown cache driver",
			env:     map[string]string{"TRYCCO_CACHE_DRIVER": "memcached"},
			wantErr: "cache.driver",
		},
		{
			name:    "mail enabled without host",
			env:     map[string]string{"TRYCCO_MAIL_ENABLED": "true"},
			wantErr: "mail.host",
		},
		{
			name:    "storage enabled without bucket",
			env:     map[string]string{"TRYCCO_STORAGE_ENABLED": "true"},
			wantErr: "storage.bucket",
		},
		{
			name:    "bad timezone",
			env:     map[string]string{"TRYCCO_SCHEDULER_TIMEZONE": "Mars/Olympus"},
			wantErr: "scheduler.timezone",
		},
		{
			name:    "malformed swagger allowlist",
			env:     map[string]string{"TRYCCO_SWAGGER_ALLOWED_IPS": "10.0.0.0/40"},
			wantErr: "swagger.allowed_ips",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"TRYCCO_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
		{
			name:    "production requires long jwt secret",
			env:     map[string]string{"TRYCCO_APP_ENV": "production", "TRYCCO_JWT_SECRET": "short"},
			wantErr: "jwt.secret",
		},
		{
			name: "production requires admin password hash",
			env: map[string]string{
				"TRYCCO_APP_ENV":    "production",
				"TRYCCO_JWT_SECRET": strings.Repeat("s", 32),
			},
			wantErr: "admin.password_hash",
		},
		{
			name: "production rejects sslmode disable",
			env: map[string]string{
				"TRYCCO_APP_ENV":             "production",
				"TRYCCO_JWT_SECRET":          strings.Repeat("s", 32),
				"TRYCCO_ADMIN_PASSWORD_HASH": "$2a$10$abcdefghijklmnopqrstuv",
				"TRYCCO_DATABASE_PASSWORD":   "secret",
			},
			wantErr: "sslmode",
		},
		{
			name: "production rejects open swagger",
			env: map[string]string{
				"TRYCCO_APP_ENV":             "production",
				"TRYCCO_JWT_SECRET":          strings.Repeat("s", 32),
				"TRYCCO_ADMIN_PASSWORD_HASH": "$2a$10$abcdefghijklmnopqrstuv",
				"TRYCCO_DATABASE_PASSWORD":   "secret",
				"TRYCCO_DATABASE_SSLMODE":    "require",
			},
			wantErr: "swagger endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTryccoEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "shop",
		Password: "p@ss:word/",
		DBName:   "trycco",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://shop:"))
	assert.Contains(t, dsn, "@db.internal:5433/trycco?sslmode=require")
	assert.NotContains(t, dsn, "p@ss:word/")
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}

func TestLoad_SwaggerInProduction(t *testing.T) {
	production := func(t *testing.T) {
		clearTryccoEnv(t)
		t.Setenv("TRYCCO_APP_ENV", "production")
		t.Setenv("TRYCCO_JWT_SECRET", strings.Repeat("s", 32))
		t.Setenv("TRYCCO_ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		t.Setenv("TRYCCO_DATABASE_PASSWORD", "secret")
		t.Setenv("TRYCCO_DATABASE_SSLMODE", "require")
	}

	t.Run("disabled", func(t *testing.T) {
		production(t)
		t.Setenv("TRYCCO_SWAGGER_ENABLED", "false")
		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Swagger.Enabled)
	})

	t.Run("behind admin auth", func(t *testing.T) {
		production(t)
		t.Setenv("TRYCCO_SWAGGER_REQUIRE_AUTH", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.RequireAuth)
	})

	t.Run("restricted by address", func(t *testing.T) {
		production(t)
		t.Setenv("TRYCCO_SWAGGER_ALLOWED_IPS", "10.0.0.0/8 127.0.0.1")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Swagger.AllowedIPs)
	})
}
