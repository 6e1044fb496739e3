package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		return nil, err
	}

	log.Printf("✅ Database initialized: %s", path)
	return d, nil
}

func (d *Database) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS journals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_uid TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			mood INTEGER CHECK(mood >= 1 AND mood <= 10),
			productivity INTEGER CHECK(productivity >= 1 AND productivity <= 10),
			sentiment TEXT NOT NULL DEFAULT 'neutral',
			sarcasm TEXT NOT NULL DEFAULT 'not_sarcastic',
			analysis TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_journals_user ON journals(user_uid)`,
		`CREATE INDEX IF NOT EXISTS idx_journals_user_created ON journals(user_uid, created_at)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %v", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}
