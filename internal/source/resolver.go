// Package source resolves a (reciter, chapter) pair to a playable audio
// reference: the local cache when present, otherwise the canonical remote
// location.
package source

import (
	"fmt"
	"strings"

	"github.com/skanderbk/tartil/internal/constants"
	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/store"
)

type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// Source is a playable audio reference. Local references point at the
// cached copy and are valid for this process session only; callers must
// not hold them past item deletion.
type Source struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

type Resolver struct {
	store  *store.DB
	origin string
}

func NewResolver(db *store.DB, origin string) *Resolver {
	return &Resolver{
		store:  db,
		origin: strings.TrimRight(origin, "/"),
	}
}

// Resolve is a pure lookup plus deterministic template expansion: no
// network probing happens here. A store read failure degrades to the
// remote URL, keeping cache usage best-effort.
func (r *Resolver) Resolve(reciterID string, chapterID int) Source {
	key := domain.CacheKey(reciterID, chapterID)

	cached, err := r.store.Has(key)
	if err == nil && cached {
		return Source{
			Kind: KindLocal,
			Key:  key,
			URL:  "/api/audio/" + key,
		}
	}

	return Source{
		Kind: KindRemote,
		Key:  key,
		URL:  r.RemoteURL(reciterID, chapterID),
	}
}

// RemoteURL expands the canonical remote location for one chapter.
func (r *Resolver) RemoteURL(reciterID string, chapterID int) string {
	return r.origin + "/" + fmt.Sprintf(constants.RemoteAudioPathTemplate, reciterID, chapterID)
}
