// Package infra wires the persistence layer to the hosted postgres service.
package infra

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hbenmansour/cashops/infra/repository"
	"github.com/hbenmansour/cashops/pkg/config"
)

// NewDBConnection opens the gorm connection. Query logging is verbose in
// development and silent everywhere else. SkipDefaultTransaction stays on:
// the unit of work opens transactions explicitly where they matter.
func NewDBConnection(cnf config.DB, appEnv string) (*gorm.DB, error) {
	databaseUrl := cnf.Url
	if databaseUrl == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	connection, err := gorm.Open(postgres.Open(databaseUrl), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// AutoMigrate creates or updates the canonical and audit tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(repository.Models()...)
}
