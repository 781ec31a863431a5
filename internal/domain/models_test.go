package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestCacheKey(t *testing.T) {
	cases := []struct {
		reciterID string
		chapterID int
		want      string
	}{
		{"mishary", 1, "mishary_1"},
		{"mishary", 114, "mishary_114"},
		{"tn-jebali", 2, "tn-jebali_2"},
	}
	for _, tc := range cases {
		if got := CacheKey(tc.reciterID, tc.chapterID); got != tc.want {
			t.Errorf("CacheKey(%q, %d) = %q, want %q", tc.reciterID, tc.chapterID, got, tc.want)
		}
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &StorageError{Op: "put", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("Expected StorageError to unwrap to the inner error")
	}
	if !strings.Contains(err.Error(), "put") {
		t.Errorf("Expected op in message, got %q", err.Error())
	}
}

func TestNetworkErrorMessage(t *testing.T) {
	statusErr := &NetworkError{URL: "http://example.com/a.mp3", Status: 404}
	if !strings.Contains(statusErr.Error(), "404") {
		t.Errorf("Expected status in message, got %q", statusErr.Error())
	}

	inner := errors.New("connection refused")
	transportErr := &NetworkError{URL: "http://example.com/a.mp3", Err: inner}
	if !errors.Is(transportErr, inner) {
		t.Error("Expected NetworkError to unwrap to the transport error")
	}
}
