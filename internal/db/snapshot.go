package db

import "database/sql"

const (
	snapshotKey = "snapshot"
	lastViewKey = "last_view"
)

// SaveLastView remembers the selected view between runs.
func (db *DB) SaveLastView(view string) error {
	return db.SetSetting(lastViewKey, view)
}

// LastView returns the remembered view selector, or "" when none is stored.
func (db *DB) LastView() (string, error) {
	return db.GetSetting(lastViewKey)
}

// SaveSnapshot stores the serialized state blob. The write replaces the
// previous blob in a single statement, so a crash leaves either the old or
// the new snapshot, never a torn one.
func (db *DB) SaveSnapshot(data []byte) error {
	_, err := db.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, snapshotKey, string(data))
	return err
}

// LoadSnapshot returns the stored state blob, or nil when none has been
// saved yet.
func (db *DB) LoadSnapshot() ([]byte, error) {
	var value string
	err := db.QueryRow("SELECT value FROM app_state WHERE key = ?", snapshotKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}
