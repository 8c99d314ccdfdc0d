// Package retsdb stores search results, downloaded objects and metadata
// snapshots in sqlite or mysql.
package retsdb

import (
	"time"

	"github.com/apex/log"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSqlite = "sqlite"
	DriverMysql  = "mysql"

	// SqliteInMemoryDSN is a database shared by every connection in the
	// process. Tests that need isolation should name their own.
	SqliteInMemoryDSN = "file::memory:?cache=shared"
)

var ErrUnknownDriver = errors.New("unknown database driver")

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSqlite:
		path, err := homedir.Expand(dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "bad sqlite path %s", dsn)
		}
		return sqlite.Open(path), nil
	case DriverMysql:
		return mysql.Open(dsn), nil
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "%q", driver)
	}
}

// Open connects to the database and runs the migrations.
func Open(driver, dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s db", driver)
	}

	if driver == DriverSqlite {
		// sqlite locks the whole file on write, a single connection avoids
		// "database is locked" errors.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// DefaultRetryWait is how long OpenWithRetry sleeps between attempts.
const DefaultRetryWait = 3 * time.Second

// OpenWithRetry calls Open up to attempts times, sleeping wait between
// tries. mysql may still be starting when retsctl runs inside a compose
// stack. An unknown driver fails at once.
func OpenWithRetry(driver, dsn string, attempts int, wait time.Duration) (*gorm.DB, error) {
	if attempts < 1 {
		attempts = 1
	}

	retryCount := 1
	for {
		db, err := Open(driver, dsn)
		switch {
		case err == nil:
			return db, nil
		case errors.Is(err, ErrUnknownDriver):
			return nil, err
		case retryCount >= attempts:
			return nil, errors.Wrapf(err, "gave up after %d tries", retryCount)
		default:
			log.Warnf("Failed to open %s db, retrying: %s", driver, err)
			retryCount++
			time.Sleep(wait)
		}
	}
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&retsmodel.SearchRecord{},
		&retsmodel.ObjectPart{},
		&retsmodel.MetadataSnapshot{},
	)

	return errors.Wrap(err, "migration failed")
}
