package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers accepted by Load.
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
	StoreDriverNone   = "none"
)

// Alert drivers accepted by Load.
const (
	AlertDriverLog  = "log"
	AlertDriverMail = "mail"
	AlertDriverNone = "none"
)

// Config captures environment driven configuration values for the booking desk.
type Config struct {
	HTTPPort     int
	SeedDefaults bool
	Store        StoreConfig
	Log          LogConfig
	Alert        AlertConfig
}

// StoreConfig selects and parameterises the key-value medium.
type StoreConfig struct {
	Driver        string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string
	Format string
}

// AlertConfig selects how ephemeral notification alerts are delivered.
type AlertConfig struct {
	Driver string
	Mail   MailConfig
}

// MailConfig holds SMTP settings for the mail alerter.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var defaults = map[string]string{
	"http.port":            "8080",
	"seed.defaults":        "true",
	"store.driver":         StoreDriverSQLite,
	"store.sqlite_path":    "facility.db",
	"store.redis_addr":     "localhost:6379",
	"store.redis_password": "",
	"store.redis_db":       "0",
	"store.key_prefix":     "",
	"log.level":            "info",
	"log.format":           "json",
	"alert.driver":         AlertDriverLog,
	"alert.mail.host":      "",
	"alert.mail.port":      "587",
	"alert.mail.username":  "",
	"alert.mail.password":  "",
	"alert.mail.from":      "",
}

// Load resolves configuration from defaults, an optional config.yaml found in
// any of searchPaths, and FACILITY_* environment variables, in increasing
// order of precedence.
//
// Every invalid or missing value is collected so the caller sees all problems
// in a single error.
func Load(searchPaths ...string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FACILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if len(searchPaths) > 0 {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, path := range searchPaths {
			v.AddConfigPath(path)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	str := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}
	integer := func(key string, min int) int {
		value, err := strconv.Atoi(str(key))
		if err != nil || value < min {
			invalid = append(invalid, envName(key))
			return 0
		}
		return value
	}

	cfg := Config{
		HTTPPort: integer("http.port", 1),
		Store: StoreConfig{
			Driver:        strings.ToLower(str("store.driver")),
			SQLitePath:    str("store.sqlite_path"),
			RedisAddr:     str("store.redis_addr"),
			RedisPassword: v.GetString("store.redis_password"),
			RedisDB:       integer("store.redis_db", 0),
			KeyPrefix:     str("store.key_prefix"),
		},
		Log: LogConfig{
			Level:  str("log.level"),
			Format: str("log.format"),
		},
		Alert: AlertConfig{
			Driver: strings.ToLower(str("alert.driver")),
			Mail: MailConfig{
				Host:     str("alert.mail.host"),
				Port:     integer("alert.mail.port", 1),
				Username: str("alert.mail.username"),
				Password: v.GetString("alert.mail.password"),
				From:     str("alert.mail.from"),
			},
		},
	}

	seed, err := strconv.ParseBool(str("seed.defaults"))
	if err != nil {
		invalid = append(invalid, envName("seed.defaults"))
	}
	cfg.SeedDefaults = seed

	switch cfg.Store.Driver {
	case StoreDriverSQLite:
		if cfg.Store.SQLitePath == "" {
			missing = append(missing, envName("store.sqlite_path"))
		}
	case StoreDriverRedis:
		if cfg.Store.RedisAddr == "" {
			missing = append(missing, envName("store.redis_addr"))
		}
	case StoreDriverMemory, StoreDriverNone:
	default:
		invalid = append(invalid, envName("store.driver"))
	}

	switch cfg.Alert.Driver {
	case AlertDriverMail:
		if cfg.Alert.Mail.Host == "" {
			missing = append(missing, envName("alert.mail.host"))
		}
		if cfg.Alert.Mail.From == "" {
			missing = append(missing, envName("alert.mail.from"))
		}
	case AlertDriverLog, AlertDriverNone:
	default:
		invalid = append(invalid, envName("alert.driver"))
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required configuration values are missing: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("configuration values are invalid: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func envName(key string) string {
	return "FACILITY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
