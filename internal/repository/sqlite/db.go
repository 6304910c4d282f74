package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// memoryDSN keeps the database private to the process; nothing touches disk.
const memoryDSN = ":memory:"

// OpenMemory opens an in-memory sqlite database.
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// each new connection to :memory: is a fresh, empty database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return db, nil
}
