package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/MPanduranga55/Contact-Book/internal/common/config"

	_ "modernc.org/sqlite"
)

// NewSQLiteDB opens the SQLite file at cfg.Path. The pool is pinned to a
// single connection so every request shares one writer.
func NewSQLiteDB(cfg *config.SQLiteConfig) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}
