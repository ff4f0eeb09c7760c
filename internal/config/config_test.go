package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:            "development",
		Port:           "5000",
		RequestTimeout: 10 * time.Second,
		DBDriver:       DriverPostgres,
		DBHost:         "localhost",
		DBName:         "quill",
		DBPassword:     "secure-password",
		DBSSLMode:      "require",
		SQLitePath:     "quill.db",
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "quill",
		JWTSecret:      "secure-secret-at-least-32-chars-long",
		JWTTTL:         168 * time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid", func(_ *Config) {}, false},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"non numeric port", func(c *Config) { c.Port = "abc" }, true},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, true},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"sqlite without path", func(c *Config) { c.DBDriver = DriverSQLite; c.SQLitePath = "" }, true},
		{"sqlite with path", func(c *Config) { c.DBDriver = DriverSQLite }, false},
		{"mongo without uri", func(c *Config) { c.DBDriver = DriverMongo; c.MongoURI = "" }, true},
		{"mongo", func(c *Config) { c.DBDriver = DriverMongo }, false},
		{"short secret in development", func(c *Config) { c.JWTSecret = "short" }, false},
		{"short secret in production", func(c *Config) { c.Env = "production"; c.JWTSecret = "short" }, true},
		{"production with ssl disabled", func(c *Config) { c.Env = "production"; c.DBSSLMode = "disable" }, true},
		{"prod without db password", func(c *Config) { c.Env = "prod"; c.DBPassword = "" }, true},
		{"production mongo ignores ssl mode", func(c *Config) {
			c.Env = "production"
			c.DBDriver = DriverMongo
			c.DBSSLMode = "disable"
		}, false},
		{"production", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "  Test ")
	t.Setenv("JWT_SECRET", "env-secret-which-is-long-enough-1234")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("JWT_TTL", "2h")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 2*time.Hour, c.JWTTTL)
	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, "quill-api", c.JWTIssuer)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestConfig_StringRedactsSecrets(t *testing.T) {
	c := validConfig()
	s := c.String()
	assert.NotContains(t, s, c.JWTSecret)
	assert.NotContains(t, s, c.DBPassword)
	assert.Contains(t, s, "<redacted>")
}

func TestConfig_DSN(t *testing.T) {
	c := validConfig()
	c.DBSSLMode = ""
	assert.Equal(t,
		"host=localhost port= user= password=secure-password dbname=quill sslmode=disable",
		c.DSN())
}
