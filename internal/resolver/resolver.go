// Package resolver maps a player name and a season display name to the
// internal player id used by the ranker endpoint.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/fcbot/internal/models"
)

var (
	ErrUnknownSeason   = errors.New("unknown season")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrAmbiguousPlayer = errors.New("ambiguous player")
)

// NotFoundError carries the closest same-season names when nothing matched
// exactly.
type NotFoundError struct {
	Name        string
	Season      string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no player named %q in season %q", e.Name, e.Season)
}

func (e *NotFoundError) Unwrap() error {
	return ErrPlayerNotFound
}

type AmbiguousError struct {
	Name       string
	Season     string
	Candidates []int64
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d players named %q in season %q", len(e.Candidates), e.Name, e.Season)
}

func (e *AmbiguousError) Unwrap() error {
	return ErrAmbiguousPlayer
}

type Resolver struct {
	threshold      float64
	maxSuggestions int
}

func New() *Resolver {
	return &Resolver{threshold: 0.5, maxSuggestions: 3}
}

func (r *Resolver) Resolve(cat *models.Catalog, name, seasonDisplay string) (int64, error) {
	season, ok := cat.SeasonByName(seasonDisplay)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSeason, seasonDisplay)
	}
	prefix := strconv.Itoa(season.ID)

	var matches []int64
	for _, p := range cat.Players() {
		if p.Name == name && p.SeasonPrefix() == prefix {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return 0, &NotFoundError{
			Name:        name,
			Season:      seasonDisplay,
			Suggestions: r.suggest(cat, name, prefix),
		}
	case 1:
		slog.Debug("Player resolved", "name", name, "season", seasonDisplay, "spid", matches[0])
		return matches[0], nil
	default:
		return 0, &AmbiguousError{Name: name, Season: seasonDisplay, Candidates: matches}
	}
}

type suggestion struct {
	name       string
	similarity float64
}

func (r *Resolver) suggest(cat *models.Catalog, name, prefix string) []string {
	target := strings.ToLower(name)
	seen := map[string]bool{}
	var candidates []suggestion

	for _, p := range cat.Players() {
		if p.SeasonPrefix() != prefix || seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		candidate := strings.ToLower(p.Name)
		distance := fuzzy.LevenshteinDistance(target, candidate)
		maxLen := float64(max(len([]rune(target)), len([]rune(candidate))))
		if maxLen == 0 {
			continue
		}
		similarity := 1 - float64(distance)/maxLen

		if similarity >= r.threshold {
			candidates = append(candidates, suggestion{name: p.Name, similarity: similarity})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	var names []string
	for i := 0; i < len(candidates) && i < r.maxSuggestions; i++ {
		names = append(names, candidates[i].name)
	}
	return names
}
