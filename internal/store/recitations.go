package store

import (
	"database/sql"

	"github.com/skanderbk/tartil/internal/domain"
)

// Put upserts a cached recitation. Last write wins; there is never more
// than one row per cache key.
func (db *DB) Put(rec *domain.Recitation) error {
	rec.ByteSize = int64(len(rec.Audio))

	query := `INSERT INTO recitations (
		key, reciter_id, reciter_label, chapter_id, chapter_label, title, audio, byte_size
	) VALUES (
		:key, :reciter_id, :reciter_label, :chapter_id, :chapter_label, :title, :audio, :byte_size
	)
	ON CONFLICT(key) DO UPDATE SET
		reciter_id = excluded.reciter_id,
		reciter_label = excluded.reciter_label,
		chapter_id = excluded.chapter_id,
		chapter_label = excluded.chapter_label,
		title = excluded.title,
		audio = excluded.audio,
		byte_size = excluded.byte_size,
		stored_at = CURRENT_TIMESTAMP`

	if _, err := db.NamedExec(query, rec); err != nil {
		return &domain.StorageError{Op: "put", Err: err}
	}
	return nil
}

// Get returns the cached recitation including audio bytes, or (nil, nil)
// on a cache miss.
func (db *DB) Get(key string) (*domain.Recitation, error) {
	var rec domain.Recitation
	err := db.DB.Get(&rec, `SELECT * FROM recitations WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get", Err: err}
	}
	return &rec, nil
}

// Has reports whether a cache key is present without loading the blob.
func (db *DB) Has(key string) (bool, error) {
	var n int
	if err := db.DB.Get(&n, `SELECT COUNT(*) FROM recitations WHERE key = ?`, key); err != nil {
		return false, &domain.StorageError{Op: "has", Err: err}
	}
	return n > 0, nil
}

// GetAudio returns only the audio bytes, or (nil, nil) on a miss.
func (db *DB) GetAudio(key string) ([]byte, error) {
	var audio []byte
	err := db.DB.Get(&audio, `SELECT audio FROM recitations WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get audio", Err: err}
	}
	return audio, nil
}

// Delete removes one cached recitation. Returns domain.ErrNotFound when
// the key is absent.
func (db *DB) Delete(key string) error {
	res, err := db.Exec(`DELETE FROM recitations WHERE key = ?`, key)
	if err != nil {
		return &domain.StorageError{Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "delete", Err: err}
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all cached recitations, newest first, without audio bytes.
func (db *DB) List() ([]*domain.Recitation, error) {
	query := `SELECT key, reciter_id, reciter_label, chapter_id, chapter_label, title, byte_size, stored_at
		FROM recitations ORDER BY stored_at DESC`

	var recs []*domain.Recitation
	if err := db.Select(&recs, query); err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	return recs, nil
}

// TotalBytes returns the summed size of all cached audio.
func (db *DB) TotalBytes() (int64, error) {
	var total int64
	if err := db.DB.Get(&total, `SELECT COALESCE(SUM(byte_size), 0) FROM recitations`); err != nil {
		return 0, &domain.StorageError{Op: "total bytes", Err: err}
	}
	return total, nil
}

// CountForReciter returns how many chapters are cached for one reciter.
// Served by idx_recitations_reciter_id, not a full scan.
func (db *DB) CountForReciter(reciterID string) (int, error) {
	var n int
	if err := db.DB.Get(&n, `SELECT COUNT(*) FROM recitations WHERE reciter_id = ?`, reciterID); err != nil {
		return 0, &domain.StorageError{Op: "count for reciter", Err: err}
	}
	return n, nil
}
