// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort          = "8080"
	DefaultDBPath        = "tartil.db"
	DefaultAudioOrigin   = "https://cdn.tartil.app/quran-audio"
	DefaultContentAPIURL = "https://api.alquran.cloud/v1"
	DefaultHTTPTimeout   = 5 * time.Minute
	ContentHTTPTimeout   = 30 * time.Second
	DefaultRetryCount    = 3
	DefaultRetryBase     = 1 * time.Second
	MinRequestInterval   = 200 * time.Millisecond
)

// Remote audio layout. Chapter numbers are zero-padded to three digits,
// e.g. reciters/tn-jebali/002.mp3.
const (
	RemoteAudioPathTemplate = "reciters/%s/%03d.mp3"
	ChapterCount            = 114
)

// Heuristic timeline calibration, tuned for measured recitation (tartil),
// not conversational speech.
const (
	SecondsPerWord     = 1.8
	MinimumVerseLength = 3.0
)

// Playback synchronization
const (
	SeekEpsilon       = 0.1
	AutoSeekGuardSpan = 500 * time.Millisecond
)

// Download pipeline
const (
	DownloadChunkSize = 64 * 1024
)

// MIME Types
const (
	MimeTypeMP3 = "audio/mpeg"
)

// File Extensions
const (
	ExtMP3 = ".mp3"
)
