package domain

import (
	"fmt"
	"time"
)

// Reciter identifies a narrator whose recorded chapters can be cached.
type Reciter struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Style string `json:"style,omitempty" db:"style"`
}

// Chapter is one recitation unit, an ordered sequence of verses.
type Chapter struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	VerseCount int    `json:"verse_count"`
}

// CacheKey builds the persistent store's primary key for one
// (reciter, chapter) audio item.
func CacheKey(reciterID string, chapterID int) string {
	return fmt.Sprintf("%s_%d", reciterID, chapterID)
}

// Recitation is one cached chapter audio object. Audio is omitted from
// listings and loaded separately.
type Recitation struct {
	Key          string    `json:"key" db:"key"`
	ReciterID    string    `json:"reciter_id" db:"reciter_id"`
	ReciterLabel string    `json:"reciter_label" db:"reciter_label"`
	ChapterID    int       `json:"chapter_id" db:"chapter_id"`
	ChapterLabel string    `json:"chapter_label" db:"chapter_label"`
	Title        string    `json:"title,omitempty" db:"title"`
	Audio        []byte    `json:"-" db:"audio"`
	ByteSize     int64     `json:"byte_size" db:"byte_size"`
	StoredAt     time.Time `json:"stored_at" db:"stored_at"`
}

// DownloadState describes one in-flight single download. It exists only
// while the fetch is active. Percent is -1 when the remote does not
// declare a total length.
type DownloadState struct {
	Key           string `json:"key"`
	ReceivedBytes int64  `json:"received_bytes"`
	TotalBytes    int64  `json:"total_bytes"`
	Percent       int    `json:"percent"`
}

// BulkItem is one pending chapter in a bulk run.
type BulkItem struct {
	ChapterID int    `json:"chapter_id"`
	Label     string `json:"label"`
}

// BulkState is a snapshot of the single system-wide bulk download run.
// The zero value is the idle sentinel.
type BulkState struct {
	Active         bool       `json:"active"`
	RunID          string     `json:"run_id,omitempty"`
	ReciterID      string     `json:"reciter_id,omitempty"`
	ReciterLabel   string     `json:"reciter_label,omitempty"`
	Queue          []BulkItem `json:"queue,omitempty"`
	TotalCount     int        `json:"total_count"`
	CompletedCount int        `json:"completed_count"`
	CurrentLabel   string     `json:"current_label,omitempty"`
	Paused         bool       `json:"paused"`
	Cancelled      bool       `json:"cancelled"`
}
