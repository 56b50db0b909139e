// Package config loads service settings from defaults, an optional TOML file
// and TODOLIST_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Defaults
const (
	DefaultPort          = "8080"
	DefaultDriver        = "sqlite3"
	DefaultDatabasePath  = "./todolist.db"
	DefaultMigrationsDir = "./database/migrations"
	DefaultCacheType     = "redis"
	DefaultRedisAddr     = "localhost:6379"
	DefaultBcryptCost    = 12
)

// Config is the full service configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
	Auth     AuthConfig     `toml:"auth"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

// DatabaseConfig selects the driver. sqlite3 uses Path only; mysql uses the
// server fields, from which the DSN is built with parseTime enabled.
type DatabaseConfig struct {
	Driver        string `toml:"driver"`
	Path          string `toml:"path"`
	Host          string `toml:"host"`
	Port          string `toml:"port"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	Name          string `toml:"name"`
	MigrationsDir string `toml:"migrations_dir"`
}

type CacheConfig struct {
	Type          string `toml:"type"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// AuthConfig covers the optional bearer token guarding the API and the
// bcrypt cost used for user passwords.
type AuthConfig struct {
	Token      string `toml:"token"`
	BcryptCost int    `toml:"bcrypt_cost"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: ServerConfig{Port: DefaultPort},
		Database: DatabaseConfig{
			Driver:        DefaultDriver,
			Path:          DefaultDatabasePath,
			MigrationsDir: DefaultMigrationsDir,
		},
		Cache: CacheConfig{
			Type:      DefaultCacheType,
			RedisAddr: DefaultRedisAddr,
		},
		Auth: AuthConfig{BcryptCost: DefaultBcryptCost},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"TODOLIST_PORT":           &cfg.Server.Port,
		"TODOLIST_DB_DRIVER":      &cfg.Database.Driver,
		"TODOLIST_DB_PATH":        &cfg.Database.Path,
		"TODOLIST_DB_HOST":        &cfg.Database.Host,
		"TODOLIST_DB_PORT":        &cfg.Database.Port,
		"TODOLIST_DB_USER":        &cfg.Database.User,
		"TODOLIST_DB_PASSWORD":    &cfg.Database.Password,
		"TODOLIST_DB_NAME":        &cfg.Database.Name,
		"TODOLIST_MIGRATIONS_DIR": &cfg.Database.MigrationsDir,
		"TODOLIST_CACHE_TYPE":     &cfg.Cache.Type,
		"TODOLIST_REDIS_ADDR":     &cfg.Cache.RedisAddr,
		"TODOLIST_REDIS_PASSWORD": &cfg.Cache.RedisPassword,
		"TODOLIST_AUTH_TOKEN":     &cfg.Auth.Token,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TODOLIST_REDIS_DB":    &cfg.Cache.RedisDB,
		"TODOLIST_BCRYPT_COST": &cfg.Auth.BcryptCost,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate rejects configurations the server cannot start with
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q is not a number", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite3")
		}
	case "mysql":
		if c.Database.Host == "" || c.Database.Port == "" || c.Database.User == "" || c.Database.Name == "" {
			return errors.New("database.host, port, user and name are required for mysql")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported (sqlite3, mysql)", c.Database.Driver)
	}
	switch c.Cache.Type {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.type %q is not supported (redis, memory, none)", c.Cache.Type)
	}
	if c.Cache.Type == "redis" && c.Cache.RedisAddr == "" {
		return errors.New("cache.redis_addr is required when cache.type is redis")
	}
	return nil
}
