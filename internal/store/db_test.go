package store

import (
	"errors"
	"os"
	"testing"

	"github.com/skanderbk/tartil/internal/domain"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	tmpFile := "test.db"
	db, err := NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
		if rErr := os.Remove(tmpFile); rErr != nil {
			t.Logf("os.Remove error: %v", rErr)
		}
	}
	return db, cleanup
}

func TestDB_Recitations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	key := domain.CacheKey("mishary", 18)
	rec := &domain.Recitation{
		Key:          key,
		ReciterID:    "mishary",
		ReciterLabel: "Mishary Alafasy",
		ChapterID:    18,
		ChapterLabel: "Al-Kahf",
		Audio:        []byte("mp3-bytes"),
	}

	// Test Put
	if err := db.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if rec.ByteSize != int64(len(rec.Audio)) {
		t.Errorf("Expected ByteSize %d, got %d", len(rec.Audio), rec.ByteSize)
	}

	// Test Get
	fetched, err := db.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected a cached recitation, got nil")
	}
	if fetched.ReciterLabel != "Mishary Alafasy" {
		t.Errorf("Expected reciter label %q, got %q", "Mishary Alafasy", fetched.ReciterLabel)
	}
	if string(fetched.Audio) != "mp3-bytes" {
		t.Errorf("Expected audio %q, got %q", "mp3-bytes", fetched.Audio)
	}

	// Test Get miss
	missing, err := db.Get("nobody_1")
	if err != nil {
		t.Fatalf("Get miss failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil on cache miss, got %+v", missing)
	}

	// Test Has
	has, err := db.Has(key)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !has {
		t.Error("Expected Has to report cached key")
	}
	has, _ = db.Has("nobody_1")
	if has {
		t.Error("Expected Has to report missing key as absent")
	}

	// Test GetAudio
	audio, err := db.GetAudio(key)
	if err != nil {
		t.Fatalf("GetAudio failed: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("Expected audio %q, got %q", "mp3-bytes", audio)
	}

	// Test upsert: last write wins, still one row
	rec.Audio = []byte("bigger-mp3-bytes")
	if err := db.Put(rec); err != nil {
		t.Fatalf("Put upsert failed: %v", err)
	}
	audio, _ = db.GetAudio(key)
	if string(audio) != "bigger-mp3-bytes" {
		t.Errorf("Expected overwritten audio, got %q", audio)
	}
}

func TestDB_ListAndTotals(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	recs := []*domain.Recitation{
		{Key: "mishary_1", ReciterID: "mishary", ChapterID: 1, Audio: []byte("aaaa")},
		{Key: "mishary_2", ReciterID: "mishary", ChapterID: 2, Audio: []byte("bbbbbb")},
		{Key: "sudais_1", ReciterID: "sudais", ChapterID: 1, Audio: []byte("cc")},
	}
	for _, r := range recs {
		if err := db.Put(r); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	list, err := db.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(list))
	}
	for _, item := range list {
		if len(item.Audio) != 0 {
			t.Errorf("Expected listing without audio bytes, got %d bytes for %s", len(item.Audio), item.Key)
		}
		if item.ByteSize == 0 {
			t.Errorf("Expected recorded byte size for %s", item.Key)
		}
	}

	total, err := db.TotalBytes()
	if err != nil {
		t.Fatalf("TotalBytes failed: %v", err)
	}
	if total != 12 {
		t.Errorf("Expected total 12 bytes, got %d", total)
	}

	count, err := db.CountForReciter("mishary")
	if err != nil {
		t.Fatalf("CountForReciter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 cached chapters for mishary, got %d", count)
	}
}

func TestDB_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	rec := &domain.Recitation{Key: "mishary_1", ReciterID: "mishary", ChapterID: 1, Audio: []byte("aa")}
	if err := db.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := db.Delete("mishary_1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	has, _ := db.Has("mishary_1")
	if has {
		t.Error("Expected key gone after delete")
	}

	err := db.Delete("mishary_1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDB_TotalBytesEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	total, err := db.TotalBytes()
	if err != nil {
		t.Fatalf("TotalBytes failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected 0 bytes on empty cache, got %d", total)
	}
}

func TestDB_Reciters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.UpsertReciter(&domain.Reciter{ID: "mishary", Name: "Mishary Alafasy", Style: "murattal"}); err != nil {
		t.Fatalf("UpsertReciter failed: %v", err)
	}
	if err := db.UpsertReciter(&domain.Reciter{ID: "mishary", Name: "Mishary Rashid Alafasy", Style: "murattal"}); err != nil {
		t.Fatalf("UpsertReciter update failed: %v", err)
	}

	reciters, err := db.ListReciters()
	if err != nil {
		t.Fatalf("ListReciters failed: %v", err)
	}
	if len(reciters) != 1 {
		t.Fatalf("Expected 1 reciter, got %d", len(reciters))
	}
	if reciters[0].Name != "Mishary Rashid Alafasy" {
		t.Errorf("Expected updated name, got %q", reciters[0].Name)
	}
}

func TestDB_Settings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	val, err := db.GetSetting(SettingActiveReciter)
	if err != nil {
		t.Fatalf("GetSetting on empty table failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected empty value for unset key, got %q", val)
	}

	if err := db.SetSetting(SettingActiveReciter, "mishary"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := db.SetSetting(SettingActiveReciter, "sudais"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}

	val, err = db.GetSetting(SettingActiveReciter)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if val != "sudais" {
		t.Errorf("Expected %q, got %q", "sudais", val)
	}
}
