// Package playback keeps the selected verse and the media playback
// clock mutually consistent.
//
// Two loops feed the mapper: the media element reports time continuously
// while playing, and the user can jump to an arbitrary verse at any
// moment. A manual jump seeks the media element, which emits more
// time-updates mid-seek; without the auto-seek guard those updates would
// be reinterpreted as a new time-driven verse change and the two loops
// would oscillate. The guard is a short cool-down during which
// time-driven verse updates are suppressed.
package playback

import (
	"sync"
	"time"

	"github.com/skanderbk/tartil/internal/constants"
	"github.com/skanderbk/tartil/internal/logger"
	"github.com/skanderbk/tartil/internal/timeline"
)

// MediaElement is the playback primitive the mapper drives. It is an
// actuator, not a co-owner: the mapper alone owns the session state.
type MediaElement interface {
	Seek(seconds float64)
	Position() float64
}

// Session is a snapshot of the playback state.
type Session struct {
	CurrentVerse int  `json:"current_verse"`
	IsPlaying    bool `json:"is_playing"`
}

// Callbacks are the mapper's notifications to UI consumers.
type Callbacks struct {
	OnVerseChanged    func(verse int)
	OnChapterComplete func()
	OnPlaybackError   func(err error)
}

type Mapper struct {
	media MediaElement
	cb    Callbacks
	log   *logger.Logger
	now   func() time.Time

	mu           sync.Mutex
	windows      []timeline.VerseWindow
	currentVerse int
	isPlaying    bool
	guardUntil   time.Time
}

func NewMapper(media MediaElement, cb Callbacks, log *logger.Logger) *Mapper {
	if log == nil {
		log = logger.Default()
	}
	return &Mapper{
		media:        media,
		cb:           cb,
		log:          log.WithComponent("playback"),
		now:          time.Now,
		currentVerse: 1,
	}
}

// LoadChapter installs a freshly synthesized timeline. resumeVerse
// preserves the listener's place when the audio source switches
// mid-playback: past verse 1 the mapper seeks into that verse's window
// instead of rewinding to raw time 0.
func (m *Mapper) LoadChapter(windows []timeline.VerseWindow, resumeVerse int) {
	m.mu.Lock()
	m.windows = windows

	if resumeVerse <= 1 || len(windows) == 0 {
		m.currentVerse = 1
		m.guardUntil = time.Time{}
		m.mu.Unlock()
		m.media.Seek(0)
		m.notifyVerse(1)
		return
	}

	if resumeVerse > len(windows) {
		resumeVerse = len(windows)
	}
	m.currentVerse = resumeVerse
	target := windows[resumeVerse-1].Start + constants.SeekEpsilon
	m.guardUntil = m.now().Add(constants.AutoSeekGuardSpan)
	m.mu.Unlock()

	m.media.Seek(target)
	m.notifyVerse(resumeVerse)
}

// HandleTimeUpdate maps a playback clock reading onto the verse whose
// half-open window [start, end) contains it. Reaching the final verse's
// end emits a terminal chapter-complete event and rewinds to 0.
// Updates arriving during the auto-seek guard are dropped.
func (m *Mapper) HandleTimeUpdate(t float64) {
	m.mu.Lock()
	if len(m.windows) == 0 || m.now().Before(m.guardUntil) {
		m.mu.Unlock()
		return
	}

	last := m.windows[len(m.windows)-1]
	if t >= last.End {
		m.currentVerse = 1
		m.isPlaying = false
		m.mu.Unlock()

		m.media.Seek(0)
		m.notifyVerse(1)
		if m.cb.OnChapterComplete != nil {
			m.cb.OnChapterComplete()
		}
		return
	}

	verse := 0
	for _, w := range m.windows {
		if t >= w.Start && t < w.End {
			verse = w.Verse
			break
		}
	}
	if verse == 0 || verse == m.currentVerse {
		m.mu.Unlock()
		return
	}

	m.currentVerse = verse
	m.mu.Unlock()
	m.notifyVerse(verse)
}

// SelectVerse handles user navigation. When the playback clock is
// already inside the target verse's window nothing moves; otherwise the
// media element is seeked just inside the window (the epsilon avoids
// boundary ambiguity) and the guard is armed so in-flight time-updates
// cannot bounce the selection back.
func (m *Mapper) SelectVerse(verse int) {
	m.mu.Lock()
	if verse < 1 || verse > len(m.windows) {
		m.mu.Unlock()
		return
	}

	changed := verse != m.currentVerse
	m.currentVerse = verse

	w := m.windows[verse-1]
	pos := m.media.Position()
	if pos >= w.Start && pos < w.End {
		m.mu.Unlock()
		if changed {
			m.notifyVerse(verse)
		}
		return
	}

	m.guardUntil = m.now().Add(constants.AutoSeekGuardSpan)
	m.mu.Unlock()

	m.media.Seek(w.Start + constants.SeekEpsilon)
	if changed {
		m.notifyVerse(verse)
	}
}

// HandleMediaError records a media element failure. Playback stops and
// the error is surfaced to the UI; the mapper never retries on its own.
func (m *Mapper) HandleMediaError(err error) {
	m.mu.Lock()
	m.isPlaying = false
	m.mu.Unlock()

	m.log.Error("Media playback failed", "error", err)
	if m.cb.OnPlaybackError != nil {
		m.cb.OnPlaybackError(err)
	}
}

func (m *Mapper) SetPlaying(playing bool) {
	m.mu.Lock()
	m.isPlaying = playing
	m.mu.Unlock()
}

// Session returns a snapshot of the playback state.
func (m *Mapper) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Session{
		CurrentVerse: m.currentVerse,
		IsPlaying:    m.isPlaying,
	}
}

func (m *Mapper) notifyVerse(verse int) {
	if m.cb.OnVerseChanged != nil {
		m.cb.OnVerseChanged(verse)
	}
}
