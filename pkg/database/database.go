// Package database owns the process-wide gorm handle and its lifecycle.
package database

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-service/config"
	"github.com/d60-Lab/blog-service/pkg/logger"
)

// ConnectionError reports a failed connect or disconnect.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string { return fmt.Sprintf("database %s: %v", e.Op, e.Err) }

func (e *ConnectionError) Unwrap() error { return e.Err }

// Manager owns the single *gorm.DB of the process. Build one in main and
// hand Client() to every repository.
type Manager struct {
	cfg       config.DatabaseConfig
	dialector gorm.Dialector
	db        *gorm.DB
	connected atomic.Bool
}

// NewManager selects a dialector from cfg.Driver.
func NewManager(cfg config.DatabaseConfig) (*Manager, error) {
	d, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	return NewManagerWithDialector(cfg, d), nil
}

// NewManagerWithDialector is used when the caller already has a dialector,
// e.g. sqlite in tests or postgres over a sqlmock connection.
func NewManagerWithDialector(cfg config.DatabaseConfig, d gorm.Dialector) *Manager {
	return &Manager{cfg: cfg, dialector: d}
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Connect opens the pool and verifies it with a ping.
func (m *Manager) Connect(ctx context.Context) error {
	db, err := m.open(ctx)
	if err != nil {
		m.connected.Store(false)
		logger.Error("database connection failed", zap.String("driver", m.cfg.Driver), zap.Error(err))
		return &ConnectionError{Op: "connect", Err: err}
	}
	m.db = db
	m.connected.Store(true)
	logger.Info("database connected", zap.String("driver", m.cfg.Driver))
	return nil
}

func (m *Manager) open(ctx context.Context) (*gorm.DB, error) {
	db, err := gorm.Open(m.dialector, &gorm.Config{
		Logger:               NewGormLogger(m.cfg),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if m.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(m.cfg.MaxOpenConns)
	}
	if m.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(m.cfg.MaxIdleConns)
	}
	if m.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(m.cfg.ConnMaxLifetime)
	}
	if m.cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(m.cfg.ConnMaxIdleTime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// Disconnect closes the pool.
func (m *Manager) Disconnect() error {
	if m.db == nil {
		m.connected.Store(false)
		return nil
	}
	sqlDB, err := m.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		logger.Error("database disconnection failed", zap.Error(err))
		return &ConnectionError{Op: "disconnect", Err: err}
	}
	m.connected.Store(false)
	logger.Info("database disconnected")
	return nil
}

// IsConnected reports liveness. Once a probe fails the manager stays
// disconnected until the next successful Connect.
func (m *Manager) IsConnected(ctx context.Context) bool {
	if !m.connected.Load() || m.db == nil {
		return false
	}
	if err := m.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		m.connected.Store(false)
		logger.Warn("database liveness probe failed", zap.Error(err))
		return false
	}
	return true
}

// Client returns the shared handle. Only valid after Connect.
func (m *Manager) Client() *gorm.DB { return m.db }

// Migrate creates or updates the tables for models.
func (m *Manager) Migrate(models ...interface{}) error {
	if err := m.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
