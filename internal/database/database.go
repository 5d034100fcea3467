package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gamecatalog/config"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	if config.EventsEnabled() {
		err = db.initializeCacheDB(config)
		if err != nil {
			return DB{}, log.Err("failed to initialize cache database", err)
		}
	} else {
		log.Info("No valkey endpoint configured, change events disabled")
	}

	if config.DatabaseAutoMigrate {
		if err := db.MigrateModels(); err != nil {
			return DB{}, log.Err("failed to migrate models", err)
		}
	}

	return *db, nil
}

func (s *DB) initializeDB(config config.Config) error {
	gormLogger := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Error,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:                 gormLogger,
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}

	return s.initializePostgresDB(gormConfig, config)
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	if config.DatabaseHost == "" {
		return log.Error("database host is empty")
	}
	if config.DatabaseName == "" {
		return log.Error("database name is empty")
	}
	if config.DatabaseUser == "" {
		return log.Error("database user is empty")
	}

	log.Info(
		"Connecting to PostgreSQL",
		"host", config.DatabaseHost,
		"port", config.DatabasePort,
		"database", config.DatabaseName,
	)
	db, err := gorm.Open(postgres.Open(DSN(config)), gormConfig)
	if err != nil {
		return log.Err("failed to open PostgreSQL database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping PostgreSQL database through GORM", err)
	}

	log.Info("Successfully connected to PostgreSQL with GORM")
	sqlDB.SetMaxOpenConns(config.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(min(config.DatabaseMaxIdleConns, config.DatabaseMaxOpenConns))
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

// DSN builds the key/value connection string shared by the API and the migration tool.
func DSN(config config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = closeErr
				if s.log != nil {
					s.log.Er("failed to close database", closeErr)
				}
			}
		}
	}

	if s.Cache.Events != nil {
		s.Cache.Events.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

// Ping reports whether the relational store answers.
func (s *DB) Ping(ctx context.Context) error {
	if s.SQL == nil {
		return fmt.Errorf("database is not initialized")
	}

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}
