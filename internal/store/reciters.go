package store

import "github.com/skanderbk/tartil/internal/domain"

// UpsertReciter adds or updates one entry in the reciter directory.
func (db *DB) UpsertReciter(r *domain.Reciter) error {
	query := `INSERT INTO reciters (id, name, style) VALUES (:id, :name, :style)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, style = excluded.style`
	if _, err := db.NamedExec(query, r); err != nil {
		return &domain.StorageError{Op: "upsert reciter", Err: err}
	}
	return nil
}

// ListReciters returns the reciter directory ordered by name.
func (db *DB) ListReciters() ([]*domain.Reciter, error) {
	var reciters []*domain.Reciter
	if err := db.Select(&reciters, `SELECT id, name, style FROM reciters ORDER BY name`); err != nil {
		return nil, &domain.StorageError{Op: "list reciters", Err: err}
	}
	return reciters, nil
}
