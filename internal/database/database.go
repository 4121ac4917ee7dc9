package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bombarena/internal/config"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotConnected = errors.New("数据库未连接")

// Probe 连通性检查表中的一行
type Probe struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	Name      string    `gorm:"size:64" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manager 数据库连接
type Manager struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Open 建立连接；postgres 失败时回退到 SQLite
func Open(cfg config.DBConfig, log zerolog.Logger) (*Manager, error) {
	m := &Manager{Logger: log}

	if cfg.Driver == "postgres" {
		db, err := m.postgresDB(cfg.DSN)
		if err == nil {
			m.DB = db
			m.Logger.Info().Msg("已连接 Postgres")
			return m, nil
		}
		m.Logger.Error().Err(err).Msg("连接 Postgres 失败，改用 SQLite")
	}

	db, err := m.sqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 失败: %w", err)
	}
	m.DB = db
	return m, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

func (m *Manager) postgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	return db, nil
}

// sqliteDB path 为空时使用内存库
func (m *Manager) sqliteDB(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	if path == "" {
		m.Logger.Info().Msg("使用内存 SQLite")
	} else {
		m.Logger.Info().Str("path", path).Msg("使用本地 SQLite")
	}
	return db, nil
}

// Setup 建表，表为空时写入一行初始数据
func (m *Manager) Setup() error {
	if m.DB == nil {
		return ErrNotConnected
	}
	if err := m.DB.AutoMigrate(&Probe{}); err != nil {
		return fmt.Errorf("建表失败: %w", err)
	}
	var count int64
	if err := m.DB.Model(&Probe{}).Count(&count).Error; err != nil {
		return fmt.Errorf("统计失败: %w", err)
	}
	if count == 0 {
		if err := m.DB.Create(&Probe{Name: "bombarena"}).Error; err != nil {
			return fmt.Errorf("写入初始数据失败: %w", err)
		}
	}
	return nil
}

// Check 连通性检查：ping 后读取全部检查行
func (m *Manager) Check(ctx context.Context) ([]Probe, error) {
	if m == nil || m.DB == nil {
		return nil, ErrNotConnected
	}
	sqlDB, err := m.DB.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	var probes []Probe
	if err := m.DB.WithContext(ctx).Order("id").Find(&probes).Error; err != nil {
		return nil, err
	}
	return probes, nil
}

// Close 关闭连接
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
