package database

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"sync"

	"modernc.org/sqlite"
)

func init() {
	// SQLite ships without a REGEXP implementation. Registering one lets the
	// hashtag queries keep their predicate parameter-bound (tweet REGEXP ?)
	// instead of splicing caller text into SQL.
	sqlite.MustRegisterDeterministicScalarFunction("regexp", 2, regexpFunc)
}

var (
	regexpMu    sync.RWMutex
	regexpCache = map[string]*regexp.Regexp{}
)

func regexpFunc(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, err := textArg(args[0])
	if err != nil {
		return nil, fmt.Errorf("regexp: %w", err)
	}
	if args[1] == nil {
		return int64(0), nil
	}
	body, err := textArg(args[1])
	if err != nil {
		return nil, fmt.Errorf("regexp: %w", err)
	}

	re, err := compileCached(pattern)
	if err != nil {
		return nil, fmt.Errorf("regexp: %w", err)
	}
	if re.MatchString(body) {
		return int64(1), nil
	}
	return int64(0), nil
}

func textArg(v driver.Value) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("expected text argument, got %T", v)
	}
}

func compileCached(pattern string) (*regexp.Regexp, error) {
	regexpMu.RLock()
	re, ok := regexpCache[pattern]
	regexpMu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	regexpMu.Lock()
	regexpCache[pattern] = re
	regexpMu.Unlock()
	return re, nil
}

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	dsn := dataSourceName + "?_time_format=sqlite&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// The UNIQUE indexes on users are the authoritative arbiter for duplicate
// registrations; the service-level pre-checks exist only to pick the error.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		hash TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	);

	CREATE TABLE IF NOT EXISTS tweets (
		id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		tweet TEXT NOT NULL,
		created DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tweets_user_created ON tweets(user_id, created DESC);

	-- External-content full-text index over tweet bodies, kept in sync by
	-- triggers so keyword search never scans the base table.
	CREATE VIRTUAL TABLE IF NOT EXISTS tweets_fts USING fts5(
		tweet,
		content='tweets',
		content_rowid='id'
	);

	CREATE TRIGGER IF NOT EXISTS tweets_fts_after_insert AFTER INSERT ON tweets BEGIN
		INSERT INTO tweets_fts(rowid, tweet) VALUES (new.id, new.tweet);
	END;

	CREATE TRIGGER IF NOT EXISTS tweets_fts_after_delete AFTER DELETE ON tweets BEGIN
		INSERT INTO tweets_fts(tweets_fts, rowid, tweet) VALUES ('delete', old.id, old.tweet);
	END;
	`
	_, err := db.Exec(sqlStmt)
	return err
}
