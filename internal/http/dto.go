package httpapp

import (
	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/timeline"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type DownloadResponse struct {
	Key    string `json:"key"`
	Cached bool   `json:"cached"`
}

type CacheListResponse struct {
	Items      []*domain.Recitation `json:"items"`
	TotalBytes int64                `json:"total_bytes"`
}

type ActiveReciterResponse struct {
	ReciterID string `json:"reciter_id"`
}

type ReciterCountResponse struct {
	ReciterID string `json:"reciter_id"`
	Count     int    `json:"count"`
}

type TimelineResponse struct {
	ChapterID int                    `json:"chapter_id"`
	Windows   []timeline.VerseWindow `json:"windows"`
}
