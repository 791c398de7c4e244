package models

import (
	"fmt"
	"time"
)

type Action string

const (
	ActionAdditionalInput Action = "additional_input"
	ActionSearchVideo     Action = "search_video"
	ActionNotSupported    Action = "not_supported"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionAdditionalInput, ActionSearchVideo, ActionNotSupported:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

type ClassifiedQuery struct {
	Action        Action `json:"action"`
	ActionInput   string `json:"action_input"`
	SearchKeyword string `json:"search_keyword"`
}

type AggregationPolicy string

const (
	PolicyWeighted     AggregationPolicy = "weighted"
	PolicyDistribution AggregationPolicy = "distribution"
)

func ParsePolicy(s string) (AggregationPolicy, error) {
	switch p := AggregationPolicy(s); p {
	case PolicyWeighted, PolicyDistribution:
		return p, nil
	case "":
		return PolicyWeighted, nil
	default:
		return "", fmt.Errorf("unknown aggregation policy %q", s)
	}
}

type AggregatedStats struct {
	Policy       AggregationPolicy    `json:"policy"`
	PlayerID     int64                `json:"player_id"`
	MatchType    int                  `json:"match_type"`
	Totals       map[string]float64   `json:"totals,omitempty"`
	MatchCount   float64              `json:"match_count"`
	Distribution map[string][]float64 `json:"distribution,omitempty"`
	Positions    []Position           `json:"positions"`
	Skipped      []Position           `json:"skipped,omitempty"`
}

// Empty reports whether no position contributed a sample.
func (a *AggregatedStats) Empty() bool {
	return a == nil || len(a.Positions) == 0
}

// Averages divides each weighted total by the total match count. All values
// are zero when the player has no recorded matches.
func (a *AggregatedStats) Averages() map[string]float64 {
	avg := make(map[string]float64, len(a.Totals))
	for field, total := range a.Totals {
		if a.MatchCount == 0 {
			avg[field] = 0
			continue
		}
		avg[field] = total / a.MatchCount
	}
	return avg
}

type VideoHit struct {
	ID          string
	Title       string
	Channel     string
	PublishedAt time.Time
}

type VideoStatistics struct {
	ViewCount int64
	LikeCount int64
}

type VideoResult struct {
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
	ViewCount   int64     `json:"view_count"`
	LikeCount   int64     `json:"like_count"`
}
