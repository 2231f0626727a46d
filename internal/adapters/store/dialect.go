package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// dialect captures the differences between the supported SQL engines
type dialect struct {
	name      string
	driver    string
	autoID    string
	dollar    bool
	returning bool
}

var (
	sqliteDialect = dialect{
		name:   "sqlite",
		driver: "sqlite3",
		autoID: "INTEGER PRIMARY KEY AUTOINCREMENT",
	}
	mysqlDialect = dialect{
		name:   "mysql",
		driver: "mysql",
		autoID: "BIGINT AUTO_INCREMENT PRIMARY KEY",
	}
	postgresDialect = dialect{
		name:      "postgres",
		driver:    "postgres",
		autoID:    "BIGSERIAL PRIMARY KEY",
		dollar:    true,
		returning: true,
	}
)

// rebind rewrites ? placeholders to $n for PostgreSQL
func (d dialect) rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + d.autoID + `,
			username VARCHAR(150) NOT NULL,
			email VARCHAR(254) NOT NULL DEFAULT '',
			mail_password VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id ` + d.autoID + `,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS project_users (
			project_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			PRIMARY KEY (project_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			id ` + d.autoID + `,
			project_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			requirements TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id ` + d.autoID + `,
			position_id BIGINT NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			programming_language VARCHAR(100) NOT NULL DEFAULT '',
			experience TEXT NOT NULL,
			used_technologies TEXT NOT NULL,
			education TEXT NOT NULL,
			soft_skills TEXT NOT NULL,
			languages VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(254) NULL,
			telegram VARCHAR(100) NOT NULL DEFAULT '',
			phone_number VARCHAR(64) NULL,
			status VARCHAR(32) NOT NULL,
			cv_file VARCHAR(512) NOT NULL DEFAULT '',
			audio_file VARCHAR(512) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
}

func open(d dialect, dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.name, err)
	}
	if d.name == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.name, err)
	}

	for _, stmt := range d.schema() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &SQLStore{db: db, d: d, logger: logger}, nil
}

// NewSQLiteStore opens the repository in a SQLite file
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLStore, error) {
	return open(sqliteDialect, path+"?_busy_timeout=5000&_foreign_keys=on", logger)
}

// NewMySQLStore opens the repository in MySQL. The DSN needs parseTime=true.
func NewMySQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	return open(mysqlDialect, dsn, logger)
}

// NewPostgresStore opens the repository in PostgreSQL
func NewPostgresStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	return open(postgresDialect, dsn, logger)
}
