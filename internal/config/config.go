// Package config loads the service configuration from a TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is neither in the TOML file nor in the
// environment.
const (
	DefaultConfigPath = "config.toml"
	DefaultHTTPAddr   = ":8080"
	DefaultDBHost     = "localhost:3306"
	DefaultDBUser     = "root"
	DefaultDBName     = "contacts"
	DefaultPageSize   = 15
)

// Config is the root configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	MySQL    MySQLConfig    `toml:"mysql"`
	Contacts ContactsConfig `toml:"contacts"`
}

// LogConfig holds logging level and format (text or json).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP listen address and whether gin logs every request.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	RequestLogging bool   `toml:"request_logging"`
}

// MySQLConfig holds the database connection parameters.
type MySQLConfig struct {
	Host     string `toml:"host"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// ContactsConfig holds settings of the contact operations.
type ContactsConfig struct {
	PageSize int `toml:"page_size"`
}

// DSN returns the data source name for the go-sql-driver/mysql driver. Times are parsed into
// time.Time values, and UPDATE statements report matched instead of changed rows.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Database)
}

// MigrateURL returns the database URL in the form expected by golang-migrate.
func (c MySQLConfig) MigrateURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s)/%s?multiStatements=true",
		c.User, c.Password, c.Host, c.Database)
}

// Load reads the TOML file at path, applies defaults for missing fields and finally applies the
// environment variables DBHOST, DBUSER, DBPWD, DBNAME, PORT, GIN_LOGGING, LOG_LEVEL, LOG_FORMAT
// and PAGE_SIZE. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	if cfg.Contacts.PageSize < 1 {
		return cfg, fmt.Errorf("invalid page size %d", cfg.Contacts.PageSize)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:           DefaultHTTPAddr,
			RequestLogging: true,
		},
		MySQL: MySQLConfig{
			Host:     DefaultDBHost,
			User:     DefaultDBUser,
			Database: DefaultDBName,
		},
		Contacts: ContactsConfig{
			PageSize: DefaultPageSize,
		},
	}
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("DBHOST"); v != "" {
		cfg.MySQL.Host = v
	}
	if v := getenv("DBUSER"); v != "" {
		cfg.MySQL.User = v
	}
	if v := getenv("DBPWD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := getenv("DBNAME"); v != "" {
		cfg.MySQL.Database = v
	}
	if v := getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("could not parse PORT env variable: %w", err)
		}
		cfg.Server.Addr = ":" + v
	}
	if strings.EqualFold(getenv("GIN_LOGGING"), "off") {
		cfg.Server.RequestLogging = false
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv("PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("could not parse PAGE_SIZE env variable: %w", err)
		}
		cfg.Contacts.PageSize = size
	}
	return nil
}
