// Package youtube is a small client for the two YouTube Data API v3 calls
// the assistant needs: keyword search and per-video statistics.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/fcbot/internal/config"
	"github.com/omarshaarawi/fcbot/internal/models"
)

var ErrVideoNotFound = errors.New("video not found")

type Client struct {
	httpClient *http.Client
	Config     config.YouTubeAPI
}

func NewClient(cfg config.YouTubeAPI) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		Config:     cfg,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Search runs a relevance-ordered video search restricted to the configured
// region and language.
func (c *Client) Search(ctx context.Context, keyword string, maxResults int) ([]models.VideoHit, error) {
	params := map[string]string{
		"q":                 keyword,
		"part":              "snippet",
		"maxResults":        strconv.Itoa(maxResults),
		"type":              "video",
		"order":             "relevance",
		"regionCode":        c.Config.RegionCode,
		"relevanceLanguage": c.Config.Language,
	}

	var resp searchResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("searching videos: %w", err)
	}

	hits := make([]models.VideoHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			slog.Debug("Unparseable video publish time",
				"video_id", item.ID.VideoID,
				"published_at", item.Snippet.PublishedAt,
				"error", err,
			)
		}
		hits = append(hits, models.VideoHit{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			PublishedAt: publishedAt,
		})
	}
	return hits, nil
}

// Statistics returns the engagement counters of one video. Videos with
// hidden like counts report zero likes.
func (c *Client) Statistics(ctx context.Context, videoID string) (models.VideoStatistics, error) {
	params := map[string]string{
		"id":   videoID,
		"part": "statistics",
	}

	var resp videosResponse
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return models.VideoStatistics{}, fmt.Errorf("fetching statistics for %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return models.VideoStatistics{}, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	stats := resp.Items[0].Statistics
	views, err := parseCount(stats.ViewCount)
	if err != nil {
		return models.VideoStatistics{}, fmt.Errorf("parsing view count for %s: %w", videoID, err)
	}
	likes, err := parseCount(stats.LikeCount)
	if err != nil {
		return models.VideoStatistics{}, fmt.Errorf("parsing like count for %s: %w", videoID, err)
	}

	return models.VideoStatistics{ViewCount: views, LikeCount: likes}, nil
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	url := strings.TrimRight(c.Config.BaseURL, "/") + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	q.Set("key", c.Config.APIKey)
	for key, value := range params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
