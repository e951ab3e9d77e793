package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config selects the store backend. When Url is set the database is a remote
// libsql (turso) instance, otherwise File is opened as a local sqlite database.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) remote() bool {
	return c.Url != ""
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// Open opens the configured database and brings its schema up to date.
func Open(ctx context.Context, config Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	if config.remote() {
		db, err = openLibsql(config)
	} else {
		db, err = openSqlite(config.File)
	}
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}

	err = Migrate(db)
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}
	return db, nil
}

func openLibsql(config Config) (*sql.DB, error) {
	url := config.Url
	if config.AuthToken != "" {
		url = fmt.Sprintf("%s?authToken=%s", url, config.AuthToken)
	}
	return sql.Open("libsql", url)
}

func openSqlite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("a database file was not specified")
	}
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
