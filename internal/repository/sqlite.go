package repository

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
)

// sessionTokenKey is the fixed storage key the session token lives under.
// The name is inherited from earlier releases that stored it as "jwt".
const sessionTokenKey = "jwt"

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db      *sql.DB
	session *sessionRepo
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	repo := &SQLiteRepository{
		db: db,
	}
	repo.session = &sessionRepo{db: db}

	return repo, nil
}

func initSchema(db *sql.DB) error {
	createTables := `
	CREATE TABLE IF NOT EXISTS keyvalue (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.Exec(createTables)
	return err
}

// Session returns the session token repository
func (r *SQLiteRepository) Session() SessionRepository {
	return r.session
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// sessionRepo implements SessionRepository
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Token() (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM keyvalue WHERE key = ?`, sessionTokenKey).Scan(&value)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return unwrapToken(value), nil
}

func (r *sessionRepo) Save(token string) error {
	_, err := r.db.Exec(`
		INSERT INTO keyvalue(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, sessionTokenKey, token)
	return err
}

func (r *sessionRepo) Clear() error {
	_, err := r.db.Exec(`DELETE FROM keyvalue WHERE key = ?`, sessionTokenKey)
	return err
}

// unwrapToken tolerates the legacy form where the token was stored as a
// JSON-quoted string rather than raw text.
func unwrapToken(value string) string {
	if len(value) >= 2 && value[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(value), &s); err == nil {
			return s
		}
	}
	return value
}
