package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and locates the backing database.
type Config struct {
	Driver string // "sqlite" (default) or "postgres"
	Path   string // sqlite file; empty = in-memory
	DSN    string // postgres connection string
}

// Store reads and writes Records.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(cfg Config) (*Store, error) {
	gcfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "", DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		logrus.Debugf("Opening SQLite history at %q", path)
		db, err = gorm.Open(sqlite.Open(path), gcfg)
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		logrus.Debugf("Opening Postgres history")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gcfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q; valid: sqlite, postgres", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver != DriverPostgres {
		// a second pooled connection would see a different in-memory database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("accessing sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts r and fills in its ID and CreatedAt.
func (s *Store) Save(r *Record) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// List returns every record in creation order.
func (s *Store) List() ([]Record, error) {
	var records []Record
	if err := s.db.Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// DeleteAll removes every record and returns how many were deleted.
func (s *Store) DeleteAll() (int64, error) {
	res := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Record{})
	if res.Error != nil {
		return 0, fmt.Errorf("clearing records: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
