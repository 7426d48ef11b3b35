package configuration

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cleanops/erp-sdk/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

// Use returns the process-wide configuration, loading it on first access.
func Use() *Configuration {
	return singleton()
}

type DatabaseOptions struct {
	Name     string `env:"DB_NAME" envDefault:"cleanops_erp"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type AuthzOptions struct {
	Mode           string `env:"AUTHZ_MODE" envDefault:"enforce"`
	ModelPath      string `env:"AUTHZ_MODEL_PATH" envDefault:"config/authz/model.conf"`
	PolicyPath     string `env:"AUTHZ_POLICY_PATH" envDefault:"config/authz/policy.csv"`
	FlagConfigPath string `env:"AUTHZ_FLAG_CONFIG_PATH" envDefault:"config/authz/flags.yml"`
}

type ScopeCacheOptions struct {
	Size int `env:"SCOPE_CACHE_SIZE" envDefault:"4096"`
}

type Configuration struct {
	Database   DatabaseOptions
	Authz      AuthzOptions
	ScopeCache ScopeCacheOptions

	Env      string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath  string `env:"LOG_PATH" envDefault:""`

	logger     *logrus.Logger
	loggerOnce sync.Once
}

func (c *Configuration) load(envFiles []string) error {
	// Missing .env files are fine; real deployments configure via environment.
	_ = godotenv.Load(envFiles...)
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("configuration: failed to parse environment: %w", err)
	}
	return nil
}

// Logger returns the configured application logger.
func (c *Configuration) Logger() *logrus.Logger {
	c.loggerOnce.Do(func() {
		c.logger = logging.Setup(logging.ParseLevel(c.LogLevel), c.LogPath)
	})
	return c.logger
}
