package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fcbot/internal/catalog"
	"github.com/omarshaarawi/fcbot/internal/classifier"
	"github.com/omarshaarawi/fcbot/internal/models"
	"github.com/omarshaarawi/fcbot/internal/repository/memory"
	"github.com/omarshaarawi/fcbot/internal/resolver"
	"github.com/omarshaarawi/fcbot/internal/stats"
	"github.com/omarshaarawi/fcbot/internal/video"
)

type fakeCatalogs struct {
	err   error
	loads int
}

func (f *fakeCatalogs) Load(context.Context) (*models.Catalog, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return testCatalog(), nil
}

func testCatalog() *models.Catalog {
	return models.NewCatalog(
		[]models.Position{{Code: 25, Name: "ST"}, {Code: 27, Name: "LW"}},
		[]models.PlayerRecord{{ID: 100000158, Name: "메시"}, {ID: 300000158, Name: "메시"}},
		[]models.Season{{ID: 100, ClassName: "ICON"}, {ID: 300, ClassName: "LIVE"}},
		[]models.MatchType{{Code: 50, Desc: "공식경기"}, {Code: 52, Desc: "감독모드"}},
	)
}

type fakeClassifier struct {
	result models.ClassifiedQuery
	err    error
}

func (f *fakeClassifier) Classify(_ context.Context, query string) (models.ClassifiedQuery, error) {
	if f.err != nil {
		return models.ClassifiedQuery{}, f.err
	}
	r := f.result
	r.ActionInput = query
	return r, nil
}

type fakeAggregator struct {
	calls     int
	policy    models.AggregationPolicy
	playerID  int64
	matchType int
	positions []models.Position
	err       error
}

func (f *fakeAggregator) Aggregate(_ context.Context, positions []models.Position, playerID int64, matchType int, policy models.AggregationPolicy) (*models.AggregatedStats, error) {
	f.calls++
	f.policy, f.playerID, f.matchType, f.positions = policy, playerID, matchType, positions
	if f.err != nil {
		return nil, f.err
	}
	out := &models.AggregatedStats{
		Policy:     policy,
		PlayerID:   playerID,
		MatchType:  matchType,
		MatchCount: 10,
		Positions:  positions,
	}
	if policy == models.PolicyDistribution {
		out.Distribution = map[string][]float64{models.FieldShoot: {1, 3, 2}}
	} else {
		out.Totals = map[string]float64{models.FieldShoot: 25}
	}
	return out, nil
}

type fakeVideos struct {
	calls   int
	results []models.VideoResult
	err     error
}

func (f *fakeVideos) Search(context.Context, string, int) ([]models.VideoResult, error) {
	f.calls++
	return f.results, f.err
}

type fixture struct {
	svc        *AssistantService
	catalogs   *fakeCatalogs
	classifier *fakeClassifier
	aggregator *fakeAggregator
	videos     *fakeVideos
}

func newFixture() *fixture {
	f := &fixture{
		catalogs:   &fakeCatalogs{},
		classifier: &fakeClassifier{},
		aggregator: &fakeAggregator{},
		videos:     &fakeVideos{},
	}
	f.svc = NewAssistantService(Components{
		Catalogs:   f.catalogs,
		Classifier: f.classifier,
		Resolver:   resolver.New(),
		Aggregator: f.aggregator,
		Videos:     f.videos,
	}, memory.NewRepository(), models.PolicyWeighted)
	return f
}

func TestAsk_NotSupported(t *testing.T) {
	f := newFixture()
	f.classifier.result = models.ClassifiedQuery{Action: models.ActionNotSupported}

	reply, err := f.svc.Ask(context.Background(), "1", "챔피언스리그 결과 알려줘.")
	require.NoError(t, err)

	assert.Equal(t, ReplyDecline, reply.Kind)
	assert.Equal(t, DeclineMessage, reply.Text)
	assert.Zero(t, f.catalogs.loads)
	assert.Zero(t, f.videos.calls)
	assert.Zero(t, f.aggregator.calls)
}

func TestAsk_SearchVideo(t *testing.T) {
	f := newFixture()
	f.classifier.result = models.ClassifiedQuery{Action: models.ActionSearchVideo, SearchKeyword: "FC Online 메시 활용법"}
	f.videos.results = []models.VideoResult{
		{Title: "메시 활용법", Channel: "FCTV", URL: video.WatchURL("abc"), LikeCount: 10, ViewCount: 100},
	}

	reply, err := f.svc.Ask(context.Background(), "1", "FC Online 메시 활용법 영상 추천해줘.")
	require.NoError(t, err)

	assert.Equal(t, ReplyVideos, reply.Kind)
	assert.Len(t, reply.Videos, 1)
	assert.Contains(t, reply.Text, "[메시 활용법](https://www.youtube.com/watch?v=abc)")
	assert.Zero(t, f.catalogs.loads)
}

func TestAsk_SearchVideoNoResults(t *testing.T) {
	f := newFixture()
	f.classifier.result = models.ClassifiedQuery{Action: models.ActionSearchVideo, SearchKeyword: "전술"}
	f.videos.results = []models.VideoResult{}

	reply, err := f.svc.Ask(context.Background(), "1", "전술 영상")
	require.NoError(t, err)
	assert.Equal(t, NoVideosMessage, reply.Text)
}

func TestAsk_StatsFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.classifier.result = models.ClassifiedQuery{Action: models.ActionAdditionalInput, SearchKeyword: "메시"}

	reply, err := f.svc.Ask(ctx, "1", "게임 내 메시 경기 평균 스탯은?")
	require.NoError(t, err)
	assert.Equal(t, ReplyPrompt, reply.Kind)
	require.NotNil(t, reply.Options)
	assert.Equal(t, []string{"공식경기", "감독모드"}, reply.Options.MatchTypes)
	assert.Equal(t, []string{"ICON", "LIVE"}, reply.Options.Seasons)
	assert.Zero(t, f.aggregator.calls)

	_, err = f.svc.CompleteStats(ctx, "1", "ICON", "친선경기")
	require.ErrorIs(t, err, ErrUnknownMatchType)

	reply, err = f.svc.CompleteStats(ctx, "1", "ICON", "공식경기")
	require.NoError(t, err)
	assert.Equal(t, ReplyStats, reply.Kind)
	assert.Equal(t, int64(100000158), f.aggregator.playerID)
	assert.Equal(t, 50, f.aggregator.matchType)
	assert.Equal(t, models.PolicyWeighted, f.aggregator.policy)
	assert.Equal(t, testCatalog().Positions(), f.aggregator.positions)
	assert.Contains(t, reply.Text, "*메시* (ICON · 공식경기)")
	assert.Contains(t, reply.Text, "슛: 2.50 (25.00)")

	_, err = f.svc.CompleteStats(ctx, "1", "ICON", "공식경기")
	assert.ErrorIs(t, err, ErrNoPendingRequest)

	assert.Equal(t, 1, f.catalogs.loads)
}

func TestCompleteStats_PlayerNotFoundKeepsPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.classifier.result = models.ClassifiedQuery{Action: models.ActionAdditionalInput, SearchKeyword: "메시"}

	_, err := f.svc.Ask(ctx, "1", "메시 스탯")
	require.NoError(t, err)

	_, err = f.svc.CompleteStats(ctx, "1", "NOPE", "공식경기")
	require.ErrorIs(t, err, resolver.ErrUnknownSeason)

	reply, err := f.svc.CompleteStats(ctx, "1", "LIVE", "감독모드")
	require.NoError(t, err)
	assert.Equal(t, int64(300000158), reply.Stats.PlayerID)
}

func TestStats_OneShot(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Stats(context.Background(), "cli", "호날두", "ICON", "공식경기")
	require.ErrorIs(t, err, resolver.ErrPlayerNotFound)
	assert.Equal(t, PlayerNotFoundMessage, UserMessage(err))
	assert.Zero(t, f.aggregator.calls)
}

func TestSetPolicy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.SetPolicy(ctx, "1", "boxplot")
	require.ErrorIs(t, err, ErrInvalidPolicy)

	policy, err := f.svc.SetPolicy(ctx, "1", "Distribution")
	require.NoError(t, err)
	assert.Equal(t, models.PolicyDistribution, policy)

	reply, err := f.svc.Stats(ctx, "1", "메시", "ICON", "공식경기")
	require.NoError(t, err)
	assert.Equal(t, models.PolicyDistribution, f.aggregator.policy)
	assert.Contains(t, reply.Text, "슛: 1.00 / 2.00 / 3.00")
}

func TestSession_ReferenceFailure(t *testing.T) {
	f := newFixture()
	f.catalogs.err = &catalog.FetchError{Catalog: "seasons", Err: errors.New("timeout")}
	f.classifier.result = models.ClassifiedQuery{Action: models.ActionAdditionalInput, SearchKeyword: "메시"}

	_, err := f.svc.Ask(context.Background(), "1", "메시 스탯")
	require.ErrorIs(t, err, catalog.ErrReferenceFetch)
	assert.Equal(t, ReferenceDataMessage, UserMessage(err))
}

func TestExpireSessions(t *testing.T) {
	f := newFixture()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	_, err := f.svc.Session(context.Background(), "idle")
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	_, err = f.svc.Session(context.Background(), "active")
	require.NoError(t, err)

	now = now.Add(25 * time.Minute)
	assert.Equal(t, 1, f.svc.ExpireSessions(30*time.Minute))

	_, err = f.svc.Session(context.Background(), "idle")
	require.NoError(t, err)
	assert.Equal(t, 3, f.catalogs.loads)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"classification", fmt.Errorf("classifying query: %w", &classifier.ClassificationError{Reason: "x"}), GenericFailureMessage},
		{"oracle", fmt.Errorf("%w: %w", classifier.ErrOracle, errors.New("quota")), GenericFailureMessage},
		{"reference", &catalog.FetchError{Catalog: "players", Err: errors.New("503")}, ReferenceDataMessage},
		{"not found", &resolver.NotFoundError{Name: "메시"}, PlayerNotFoundMessage},
		{
			"not found with suggestions",
			&resolver.NotFoundError{Name: "메시", Suggestions: []string{"메시아"}},
			PlayerNotFoundMessage + "\n혹시 이 선수를 찾으셨나요? 메시아",
		},
		{"empty aggregation", fmt.Errorf("x: %w", stats.ErrAggregationEmpty), NoPlayerDataMessage},
		{"video search", &video.SearchError{Keyword: "x", Err: errors.New("403")}, "영상 검색에 실패했습니다. 잠시 후 다시 시도해 주세요."},
		{"unknown", errors.New("boom"), GenericFailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}

	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(&resolver.AmbiguousError{Candidates: []int64{1, 2}}), "1, 2")
}

type blockingAggregator struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingAggregator) Aggregate(_ context.Context, positions []models.Position, playerID int64, matchType int, policy models.AggregationPolicy) (*models.AggregatedStats, error) {
	b.started <- struct{}{}
	<-b.release
	return &models.AggregatedStats{
		Policy:     policy,
		PlayerID:   playerID,
		MatchType:  matchType,
		MatchCount: 1,
		Positions:  positions,
		Totals:     map[string]float64{models.FieldShoot: 1},
	}, nil
}

func TestCompleteStats_KeepsConcurrentSessionChanges(t *testing.T) {
	f := newFixture()
	agg := &blockingAggregator{started: make(chan struct{}), release: make(chan struct{})}
	f.svc.Aggregator = agg
	ctx := context.Background()

	f.classifier.result = models.ClassifiedQuery{Action: models.ActionAdditionalInput, SearchKeyword: "메시"}
	_, err := f.svc.Ask(ctx, "1", "게임 내 메시 경기 평균 스탯은?")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.CompleteStats(ctx, "1", "ICON", "공식경기")
		done <- err
	}()
	<-agg.started

	_, err = f.svc.SetPolicy(ctx, "1", "distribution")
	require.NoError(t, err)

	f.classifier.result = models.ClassifiedQuery{Action: models.ActionAdditionalInput, SearchKeyword: "호나우두"}
	_, err = f.svc.Ask(ctx, "1", "호나우두 스탯 보여줘")
	require.NoError(t, err)

	close(agg.release)
	require.NoError(t, <-done)

	sess, ok := f.svc.repo.Get("1")
	require.True(t, ok)
	assert.Equal(t, models.PolicyDistribution, sess.Policy)
	require.NotNil(t, sess.Pending)
	assert.Equal(t, "호나우두", sess.Pending.Keyword)
}

func TestCompleteStats_ClearsOwnPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.classifier.result = models.ClassifiedQuery{Action: models.ActionAdditionalInput, SearchKeyword: "메시"}
	_, err := f.svc.Ask(ctx, "1", "게임 내 메시 경기 평균 스탯은?")
	require.NoError(t, err)

	_, err = f.svc.CompleteStats(ctx, "1", "ICON", "공식경기")
	require.NoError(t, err)

	sess, ok := f.svc.repo.Get("1")
	require.True(t, ok)
	assert.Nil(t, sess.Pending)
}
