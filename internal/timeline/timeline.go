// Package timeline synthesizes per-verse time windows from verse text.
//
// The windows are a calibrated heuristic, not audio alignment: duration
// is proportional to word count, so the mapping drifts over very long
// chapters. Windows are recomputed per chapter rather than cached since
// the same text plays at different speeds under different reciters.
package timeline

import (
	"strings"

	"github.com/skanderbk/tartil/internal/constants"
)

// VerseWindow is one verse's slice of the playback clock. Windows are
// contiguous and non-overlapping: each End equals the next Start, and
// the first Start is 0.
type VerseWindow struct {
	Verse    int     `json:"verse"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Calibration tunes the synthesis. The defaults are reciter-agnostic;
// per-reciter pace can be supplied where known.
type Calibration struct {
	SecondsPerWord float64
	MinimumVerse   float64
}

func DefaultCalibration() Calibration {
	return Calibration{
		SecondsPerWord: constants.SecondsPerWord,
		MinimumVerse:   constants.MinimumVerseLength,
	}
}

// Synthesize turns ordered verse texts into a monotonic timeline.
// A verse that is empty or whitespace-only gets the minimum duration
// rather than an error; one degenerate verse must not break playback of
// the whole chapter.
func Synthesize(verses []string, cal Calibration) []VerseWindow {
	if cal.SecondsPerWord <= 0 {
		cal.SecondsPerWord = constants.SecondsPerWord
	}
	if cal.MinimumVerse <= 0 {
		cal.MinimumVerse = constants.MinimumVerseLength
	}

	windows := make([]VerseWindow, len(verses))
	var t float64
	for i, verse := range verses {
		duration := float64(wordCount(verse)) * cal.SecondsPerWord
		if duration < cal.MinimumVerse {
			duration = cal.MinimumVerse
		}

		windows[i] = VerseWindow{
			Verse:    i + 1,
			Start:    t,
			End:      t + duration,
			Duration: duration,
		}
		t += duration
	}
	return windows
}

func wordCount(verse string) int {
	return len(strings.Fields(verse))
}
