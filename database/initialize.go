package database

import (
	"fmt"
	"path/filepath"

	"todolist-service/config"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// MigrationsPath returns the directory holding the migrations for the
// configured driver, e.g. ./database/migrations/sqlite3
func MigrationsPath(cfg config.DatabaseConfig) string {
	return filepath.Join(cfg.MigrationsDir, cfg.Driver)
}

// ConnectionConfig maps the service settings onto go-utils db settings.
// For mysql go-utils builds user:password@tcp(host:port)/name?parseTime=true.
func ConnectionConfig(cfg config.DatabaseConfig) db.DatabaseConfig {
	if cfg.Driver == "sqlite3" {
		return db.DatabaseConfig{DRIVER: cfg.Driver, DB: cfg.Path}
	}
	return db.DatabaseConfig{
		DRIVER:   cfg.Driver,
		HOST:     cfg.Host,
		PORT:     cfg.Port,
		USER:     cfg.User,
		PASSWORD: cfg.Password,
		DB:       cfg.Name,
	}
}

// InitializeDatabase opens the configured database and brings its schema up
// to date.
func InitializeDatabase(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dbConn, err := connect(cfg)
	if err != nil {
		logger.Error("Error while connecting to database", zap.Error(err), zap.String("driver", cfg.Driver))
		return nil, err
	}

	dir := MigrationsPath(cfg)
	if err := migrations.Migrate(dbConn, dir); err != nil {
		logger.Error("Error while running migration", zap.Error(err), zap.String("dir", dir))
		dbConn.Close()
		return nil, err
	}

	logger.Info("Database initialized successfully", zap.String("driver", cfg.Driver))
	return dbConn, nil
}

// connect opens and pings the database. go-utils panics when either step
// fails, so the panic is turned back into an error here.
func connect(cfg config.DatabaseConfig) (dbConn *sqlx.DB, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if cause, ok := r.(error); ok {
			err = fmt.Errorf("connect to %s database: %w", cfg.Driver, cause)
		} else {
			err = fmt.Errorf("connect to %s database: %v", cfg.Driver, r)
		}
	}()
	return db.GetDBConnection(ConnectionConfig(cfg)), nil
}
