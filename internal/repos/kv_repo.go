package repos

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
)

// KVRepo is the local-storage analogue: JSON blobs under well-known keys.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

// Well-known keys, matching the storefront's localStorage names.
const (
	KeyProductsPageData = "icaruProductsPageData"
	KeyAdminLogin       = "icaruAdminLogin"
	KeyAdminSession     = "icaruAdminSession"
	KeyCartPrefix       = "icaruCart:"
)

// Get returns the raw value and whether the key exists.
func (r *KVRepo) Get(key string) (string, bool, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *KVRepo) Put(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

func (r *KVRepo) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// GetJSON unmarshals the stored blob into target; false when the key is
// absent. A blob that no longer parses is an error, not a silent reset.
func (r *KVRepo) GetJSON(key string, target any) (bool, error) {
	raw, ok, err := r.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, err
	}
	return true, nil
}

func (r *KVRepo) PutJSON(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Put(key, string(b))
}
