package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meszmate/newchat/internal/contacts"
)

type DB struct {
	db *sql.DB
}

func New(dataDir string) (*DB, error) {
	return Open(filepath.Join(dataDir, "newchat.db"))
}

// Open opens the database at an explicit path
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &DB{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS contacts (
			account TEXT NOT NULL,
			friend_uuid TEXT NOT NULL,
			name TEXT,
			image_url TEXT,
			position INTEGER NOT NULL,
			last_updated INTEGER NOT NULL,
			PRIMARY KEY (account, friend_uuid)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_position ON contacts(account, position)`,

		`CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
	}

	for _, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveContacts upserts contacts for an account. New contacts are appended
// after the existing ones; known contacts keep their position.
func (d *DB) SaveContacts(account string, entries []contacts.Contact) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRow(
		"SELECT COALESCE(MAX(position), -1) + 1 FROM contacts WHERE account = ?", account,
	).Scan(&next); err != nil {
		return err
	}

	now := time.Now().Unix()
	for _, c := range entries {
		var known int
		err := tx.QueryRow(
			"SELECT COUNT(*) FROM contacts WHERE account = ? AND friend_uuid = ?", account, c.ID,
		).Scan(&known)
		if err != nil {
			return err
		}

		if known > 0 {
			_, err = tx.Exec(`
				UPDATE contacts SET name = ?, image_url = ?, last_updated = ?
				WHERE account = ? AND friend_uuid = ?
			`, c.Name, c.ImageURL, now, account, c.ID)
		} else {
			_, err = tx.Exec(`
				INSERT INTO contacts (account, friend_uuid, name, image_url, position, last_updated)
				VALUES (?, ?, ?, ?, ?, ?)
			`, account, c.ID, c.Name, c.ImageURL, next, now)
			next++
		}
		if err != nil {
			return fmt.Errorf("failed to save contact %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// ContactsPage returns up to limit contacts starting at offset, in position order
func (d *DB) ContactsPage(ctx context.Context, account string, limit, offset int) ([]contacts.Contact, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT friend_uuid, name, image_url
		FROM contacts
		WHERE account = ?
		ORDER BY position
		LIMIT ? OFFSET ?
	`, account, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []contacts.Contact
	for rows.Next() {
		var c contacts.Contact
		var name, imageURL sql.NullString

		if err := rows.Scan(&c.ID, &name, &imageURL); err != nil {
			return nil, err
		}

		if name.Valid {
			c.Name = name.String
		}
		if imageURL.Valid {
			c.ImageURL = imageURL.String
		}
		result = append(result, c)
	}

	return result, rows.Err()
}

func (d *DB) ContactCount(account string) (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM contacts WHERE account = ?", account).Scan(&count)
	return count, err
}

func (d *DB) DeleteContacts(account string) error {
	_, err := d.db.Exec("DELETE FROM contacts WHERE account = ?", account)
	return err
}

func (d *DB) SetAppState(key, value string) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO app_state (key, value)
		VALUES (?, ?)
	`, key, value)
	return err
}

func (d *DB) GetAppState(key string) (string, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (d *DB) Vacuum() error {
	_, err := d.db.Exec("VACUUM")
	return err
}
