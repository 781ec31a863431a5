package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/httpclient"
)

func TestClient_Chapters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surah" {
			t.Errorf("Expected path /surah, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": 200,
			"data": [
				{"number": 1, "name": "Al-Fatihah", "numberOfAyahs": 7},
				{"number": 2, "name": "Al-Baqarah", "numberOfAyahs": 286}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, httpclient.NewClient(nil, 0))
	chapters, err := c.Chapters(context.Background())
	if err != nil {
		t.Fatalf("Chapters failed: %v", err)
	}

	if len(chapters) != 2 {
		t.Fatalf("Expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].ID != 1 || chapters[0].Name != "Al-Fatihah" || chapters[0].VerseCount != 7 {
		t.Errorf("Unexpected first chapter: %+v", chapters[0])
	}
	if chapters[1].VerseCount != 286 {
		t.Errorf("Expected 286 verses, got %d", chapters[1].VerseCount)
	}
}

func TestClient_Verses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surah/112/quran-uthmani" {
			t.Errorf("Expected edition path, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": 200,
			"data": {
				"ayahs": [
					{"numberInSurah": 1, "text": "first verse text"},
					{"numberInSurah": 2, "text": "second verse text"}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, httpclient.NewClient(nil, 0))
	verses, err := c.Verses(context.Background(), 112)
	if err != nil {
		t.Fatalf("Verses failed: %v", err)
	}

	if len(verses) != 2 {
		t.Fatalf("Expected 2 verses, got %d", len(verses))
	}
	if verses[0] != "first verse text" {
		t.Errorf("Unexpected first verse: %q", verses[0])
	}
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, httpclient.NewClient(nil, 0))
	_, err := c.Chapters(context.Background())
	if err == nil {
		t.Fatal("Expected error on 404")
	}

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Expected NetworkError, got %T: %v", err, err)
	}
	if netErr.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", netErr.Status)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, httpclient.NewClient(nil, 0))
	if _, err := c.Verses(context.Background(), 1); err == nil {
		t.Fatal("Expected decode error")
	}
}
