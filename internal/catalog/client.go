package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/httpclient"
)

// Client fetches chapter metadata and verse texts over HTTP.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, hc *httpclient.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

type chapterResponse struct {
	Code int `json:"code"`
	Data []struct {
		Number         int    `json:"number"`
		Name           string `json:"name"`
		NumberOfVerses int    `json:"numberOfAyahs"`
	} `json:"data"`
}

type verseResponse struct {
	Code int `json:"code"`
	Data struct {
		Verses []struct {
			NumberInChapter int    `json:"numberInSurah"`
			Text            string `json:"text"`
		} `json:"ayahs"`
	} `json:"data"`
}

func (c *Client) Chapters(ctx context.Context) ([]domain.Chapter, error) {
	var out chapterResponse
	if err := c.getJSON(ctx, c.baseURL+"/surah", &out); err != nil {
		return nil, err
	}

	chapters := make([]domain.Chapter, 0, len(out.Data))
	for _, ch := range out.Data {
		chapters = append(chapters, domain.Chapter{
			ID:         ch.Number,
			Name:       ch.Name,
			VerseCount: ch.NumberOfVerses,
		})
	}
	return chapters, nil
}

func (c *Client) Verses(ctx context.Context, chapterID int) ([]string, error) {
	url := fmt.Sprintf("%s/surah/%d/quran-uthmani", c.baseURL, chapterID)

	var out verseResponse
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}

	verses := make([]string, 0, len(out.Data.Verses))
	for _, v := range out.Data.Verses {
		verses = append(verses, v.Text)
	}
	return verses, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return &domain.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.NetworkError{URL: url, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
