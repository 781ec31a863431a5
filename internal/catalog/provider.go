// Package catalog provides chapter metadata and verse texts from the
// content API. Verse texts feed the timeline synthesizer; chapter labels
// feed the bulk queue.
package catalog

import (
	"context"

	"github.com/skanderbk/tartil/internal/domain"
)

type Provider interface {
	// Chapters returns the full ordered chapter list.
	Chapters(ctx context.Context) ([]domain.Chapter, error)

	// Verses returns the ordered verse texts of one chapter.
	Verses(ctx context.Context, chapterID int) ([]string, error)
}
