package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"github.com/d60-Lab/blog-service/config"
)

func sqliteConfig(dsn string) config.DatabaseConfig {
	return config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1, LogLevel: "silent"}
}

func TestManager_ConnectProbeDisconnect(t *testing.T) {
	m, err := NewManager(sqliteConfig(":memory:"))
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, m.IsConnected(ctx), "not connected before Connect")

	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.IsConnected(ctx))
	assert.NotNil(t, m.Client())

	require.NoError(t, m.Disconnect())
	assert.False(t, m.IsConnected(ctx))
}

func TestManager_ProbeFailureFlipsState(t *testing.T) {
	m, err := NewManager(sqliteConfig(":memory:"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.Connect(ctx))

	// 绕过 Disconnect 直接关闭底层连接，模拟数据库不可达
	sqlDB, err := m.Client().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.False(t, m.IsConnected(ctx))
	assert.False(t, m.connected.Load())
}

func TestManager_ProbeFailureStopsProbing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewManagerWithDialector(config.DatabaseConfig{Driver: "postgres", LogLevel: "silent"}, postgres.New(postgres.Config{Conn: db}))
	ctx := context.Background()
	require.NoError(t, m.Connect(ctx))

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SELECT 1`).WillReturnError(errors.New("server closed the connection unexpectedly"))

	assert.True(t, m.IsConnected(ctx))
	assert.False(t, m.IsConnected(ctx))
	// 已标记断开，不再发起探测
	assert.False(t, m.IsConnected(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_ConnectFailure(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "missing", "dir", "blog.db")
	m := NewManagerWithDialector(sqliteConfig(dsn), sqlite.Open(dsn))

	err := m.Connect(context.Background())

	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "connect", ce.Op)
	assert.False(t, m.IsConnected(context.Background()))
}

func TestManager_DisconnectFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	m := NewManagerWithDialector(config.DatabaseConfig{Driver: "postgres", LogLevel: "silent"}, postgres.New(postgres.Config{Conn: db}))
	require.NoError(t, m.Connect(context.Background()))
	mock.ExpectClose().WillReturnError(errors.New("close failed"))

	err = m.Disconnect()

	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "disconnect", ce.Op)
}

func TestNewManager_UnknownDriver(t *testing.T) {
	_, err := NewManager(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestManager_Migrate(t *testing.T) {
	type widget struct {
		ID   int64
		Name string
	}
	m, err := NewManager(sqliteConfig(":memory:"))
	require.NoError(t, err)
	require.NoError(t, m.Connect(context.Background()))
	defer m.Disconnect()

	require.NoError(t, m.Migrate(&widget{}))
	assert.True(t, m.Client().Migrator().HasTable(&widget{}))
}
