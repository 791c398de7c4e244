package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omarshaarawi/fcbot/internal/models"
	"github.com/omarshaarawi/fcbot/internal/repository/memory"
)

var (
	ErrNoPendingRequest = errors.New("no pending stats request")
	ErrUnknownMatchType = errors.New("unknown match type")
	ErrInvalidPolicy    = errors.New("invalid aggregation policy")
)

type CatalogLoader interface {
	Load(ctx context.Context) (*models.Catalog, error)
}

type QueryClassifier interface {
	Classify(ctx context.Context, query string) (models.ClassifiedQuery, error)
}

type PlayerResolver interface {
	Resolve(cat *models.Catalog, name, seasonDisplay string) (int64, error)
}

type StatsAggregator interface {
	Aggregate(ctx context.Context, positions []models.Position, playerID int64, matchType int, policy models.AggregationPolicy) (*models.AggregatedStats, error)
}

type VideoSearcher interface {
	Search(ctx context.Context, keyword string, maxResults int) ([]models.VideoResult, error)
}

type ReplyKind string

const (
	ReplyDecline ReplyKind = "decline"
	ReplyVideos  ReplyKind = "videos"
	ReplyPrompt  ReplyKind = "prompt"
	ReplyStats   ReplyKind = "stats"
)

// Options are the values a user can pick to complete a stats request.
type Options struct {
	Seasons    []string `json:"seasons"`
	MatchTypes []string `json:"match_types"`
}

// Reply is the outcome of one request. Text is Telegram Markdown.
type Reply struct {
	Kind           ReplyKind               `json:"kind"`
	Text           string                  `json:"text"`
	Classification *models.ClassifiedQuery `json:"classification,omitempty"`
	Options        *Options                `json:"options,omitempty"`
	Stats          *models.AggregatedStats `json:"stats,omitempty"`
	Videos         []models.VideoResult    `json:"videos,omitempty"`
}

type Components struct {
	Catalogs   CatalogLoader
	Classifier QueryClassifier
	Resolver   PlayerResolver
	Aggregator StatsAggregator
	Videos     VideoSearcher
}

type AssistantService struct {
	Components
	repo          *memory.Repository
	defaultPolicy models.AggregationPolicy
	now           func() time.Time
}

func NewAssistantService(c Components, repo *memory.Repository, defaultPolicy models.AggregationPolicy) *AssistantService {
	if defaultPolicy == "" {
		defaultPolicy = models.PolicyWeighted
	}
	return &AssistantService{
		Components:    c,
		repo:          repo,
		defaultPolicy: defaultPolicy,
		now:           time.Now,
	}
}

// Session returns the live session for key, opening one with a freshly
// loaded reference catalog when none exists.
func (s *AssistantService) Session(ctx context.Context, key string) (models.Session, error) {
	now := s.now()
	if sess, ok := s.repo.Update(key, func(sess *models.Session) { sess.LastSeen = now }); ok {
		return sess, nil
	}

	cat, err := s.Catalogs.Load(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("opening session: %w", err)
	}

	sess := models.Session{
		Key:       key,
		Catalog:   cat,
		Policy:    s.defaultPolicy,
		CreatedAt: now,
		LastSeen:  now,
	}
	stored := s.repo.SaveIfAbsent(sess)
	if stored.Catalog == cat {
		slog.Info("Session opened", "session", key)
	}
	return stored, nil
}

func (s *AssistantService) HasSession(key string) bool {
	_, ok := s.repo.Get(key)
	return ok
}

func (s *AssistantService) Reset(key string) {
	s.repo.Delete(key)
	slog.Info("Session reset", "session", key)
}

// ExpireSessions drops sessions idle for longer than ttl.
func (s *AssistantService) ExpireSessions(ttl time.Duration) int {
	return s.repo.Expire(s.now().Add(-ttl))
}

func (s *AssistantService) Ask(ctx context.Context, key, query string) (Reply, error) {
	q, err := s.Classifier.Classify(ctx, query)
	if err != nil {
		return Reply{}, fmt.Errorf("classifying query: %w", err)
	}

	switch q.Action {
	case models.ActionSearchVideo:
		return s.searchVideos(ctx, q)
	case models.ActionAdditionalInput:
		return s.requestSelection(ctx, key, q)
	default:
		return Reply{Kind: ReplyDecline, Text: DeclineMessage, Classification: &q}, nil
	}
}

func (s *AssistantService) searchVideos(ctx context.Context, q models.ClassifiedQuery) (Reply, error) {
	results, err := s.Videos.Search(ctx, q.SearchKeyword, 0)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Kind:           ReplyVideos,
		Text:           formatVideos(q.SearchKeyword, results),
		Classification: &q,
		Videos:         results,
	}, nil
}

func (s *AssistantService) requestSelection(ctx context.Context, key string, q models.ClassifiedQuery) (Reply, error) {
	sess, err := s.Session(ctx, key)
	if err != nil {
		return Reply{}, err
	}

	pending := &models.PendingStats{
		Keyword:   q.SearchKeyword,
		Query:     q.ActionInput,
		CreatedAt: s.now(),
	}
	if _, ok := s.repo.Update(key, func(sess *models.Session) { sess.Pending = pending }); !ok {
		sess.Pending = pending
		s.repo.SaveIfAbsent(sess)
	}

	opts := sessionOptions(sess)
	return Reply{
		Kind:           ReplyPrompt,
		Text:           formatSelectionPrompt(q.SearchKeyword, opts),
		Classification: &q,
		Options:        &opts,
	}, nil
}

// CompleteStats answers the pending stats request of the session with the
// chosen season and match type.
func (s *AssistantService) CompleteStats(ctx context.Context, key, seasonDisplay, matchDesc string) (Reply, error) {
	sess, err := s.Session(ctx, key)
	if err != nil {
		return Reply{}, err
	}
	pending := sess.Pending
	if pending == nil {
		return Reply{}, ErrNoPendingRequest
	}

	reply, err := s.stats(ctx, sess, pending.Keyword, seasonDisplay, matchDesc)
	if err != nil {
		return Reply{}, err
	}

	// A newer request may have replaced the pending one while aggregating.
	s.repo.Update(key, func(sess *models.Session) {
		if sess.Pending == pending {
			sess.Pending = nil
		}
	})
	return reply, nil
}

// Stats answers a stats request in one step, without classification.
func (s *AssistantService) Stats(ctx context.Context, key, player, seasonDisplay, matchDesc string) (Reply, error) {
	sess, err := s.Session(ctx, key)
	if err != nil {
		return Reply{}, err
	}
	return s.stats(ctx, sess, player, seasonDisplay, matchDesc)
}

func (s *AssistantService) stats(ctx context.Context, sess models.Session, player, seasonDisplay, matchDesc string) (Reply, error) {
	player = strings.TrimSpace(player)
	seasonDisplay = strings.TrimSpace(seasonDisplay)
	matchDesc = strings.TrimSpace(matchDesc)

	matchType, ok := sess.Catalog.MatchTypeByDesc(matchDesc)
	if !ok {
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownMatchType, matchDesc)
	}

	playerID, err := s.Resolver.Resolve(sess.Catalog, player, seasonDisplay)
	if err != nil {
		return Reply{}, fmt.Errorf("resolving player: %w", err)
	}

	agg, err := s.Aggregator.Aggregate(ctx, sess.Catalog.Positions(), playerID, matchType.Code, sess.Policy)
	if err != nil {
		return Reply{}, err
	}

	return Reply{
		Kind:  ReplyStats,
		Text:  formatStats(player, seasonDisplay, matchType.Desc, agg),
		Stats: agg,
	}, nil
}

func (s *AssistantService) SetPolicy(ctx context.Context, key, raw string) (models.AggregationPolicy, error) {
	policy, err := models.ParsePolicy(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}

	sess, err := s.Session(ctx, key)
	if err != nil {
		return "", err
	}
	if _, ok := s.repo.Update(key, func(sess *models.Session) { sess.Policy = policy }); !ok {
		sess.Policy = policy
		s.repo.SaveIfAbsent(sess)
	}

	slog.Info("Aggregation policy changed", "session", key, "policy", policy)
	return policy, nil
}

func (s *AssistantService) Options(ctx context.Context, key string) (Options, error) {
	sess, err := s.Session(ctx, key)
	if err != nil {
		return Options{}, err
	}
	return sessionOptions(sess), nil
}

func (s *AssistantService) Seasons(ctx context.Context, key string) (string, error) {
	opts, err := s.Options(ctx, key)
	if err != nil {
		return "", err
	}
	return formatList("📅 *시즌 목록*", opts.Seasons), nil
}

func (s *AssistantService) MatchTypes(ctx context.Context, key string) (string, error) {
	opts, err := s.Options(ctx, key)
	if err != nil {
		return "", err
	}
	return formatList("🎮 *경기 유형*", opts.MatchTypes), nil
}

func sessionOptions(sess models.Session) Options {
	return Options{
		Seasons:    sess.Catalog.SeasonOptions(),
		MatchTypes: sess.Catalog.MatchTypeOptions(),
	}
}
