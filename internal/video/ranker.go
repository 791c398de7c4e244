// Package video searches instructional videos and orders them by
// engagement.
package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/omarshaarawi/fcbot/internal/models"
)

const DefaultMaxResults = 5

var (
	ErrEmptyKeyword = errors.New("empty search keyword")
	ErrVideoSearch  = errors.New("video search failed")
)

type SearchError struct {
	Keyword string
	Err     error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("searching videos for %q: %v", e.Keyword, e.Err)
}

func (e *SearchError) Unwrap() []error {
	return []error{ErrVideoSearch, e.Err}
}

type Source interface {
	Search(ctx context.Context, keyword string, maxResults int) ([]models.VideoHit, error)
	Statistics(ctx context.Context, videoID string) (models.VideoStatistics, error)
}

type Ranker struct {
	source     Source
	maxResults int
}

func NewRanker(source Source, maxResults int) *Ranker {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Ranker{source: source, maxResults: maxResults}
}

// Search runs one search, enriches every hit with its counters and returns
// the hits ordered by likes. Hits whose counters cannot be fetched are
// dropped.
func (r *Ranker) Search(ctx context.Context, keyword string, maxResults int) ([]models.VideoResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if maxResults <= 0 {
		maxResults = r.maxResults
	}

	hits, err := r.source.Search(ctx, keyword, maxResults)
	if err != nil {
		return nil, &SearchError{Keyword: keyword, Err: err}
	}

	results := make([]models.VideoResult, 0, len(hits))
	for _, hit := range hits {
		stats, err := r.source.Statistics(ctx, hit.ID)
		if err != nil {
			slog.Debug("Dropping video without statistics", "video_id", hit.ID, "error", err)
			continue
		}
		results = append(results, models.VideoResult{
			Title:       hit.Title,
			Channel:     hit.Channel,
			PublishedAt: hit.PublishedAt,
			URL:         WatchURL(hit.ID),
			ViewCount:   stats.ViewCount,
			LikeCount:   stats.LikeCount,
		})
	}

	SortByLikes(results)
	slog.Info("Videos ranked", "keyword", keyword, "hits", len(hits), "results", len(results))
	return results, nil
}

func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// SortByLikes orders results by like count, highest first. Ties keep their
// current order.
func SortByLikes(results []models.VideoResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].LikeCount > results[j].LikeCount
	})
}
