package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fcbot/internal/catalog"
	"github.com/omarshaarawi/fcbot/internal/models"
)

type fakeSource struct {
	failOn string
}

var errDown = errors.New("connection refused")

func (f fakeSource) GetPositions(ctx context.Context) ([]models.Position, error) {
	if f.failOn == "positions" {
		return nil, errDown
	}
	return []models.Position{{Code: 0, Name: "GK"}, {Code: 25, Name: "ST"}}, nil
}

func (f fakeSource) GetPlayers(ctx context.Context) ([]models.PlayerRecord, error) {
	if f.failOn == "players" {
		return nil, errDown
	}
	return []models.PlayerRecord{{ID: 101000001, Name: "메시"}}, nil
}

func (f fakeSource) GetSeasons(ctx context.Context) ([]models.Season, error) {
	if f.failOn == "seasons" {
		return nil, errDown
	}
	return []models.Season{{ID: 101, ClassName: "ICON"}, {ID: 999, ClassName: ""}}, nil
}

func (f fakeSource) GetMatchTypes(ctx context.Context) ([]models.MatchType, error) {
	if f.failOn == "matchtypes" {
		return nil, errDown
	}
	return []models.MatchType{{Code: 50, Desc: "공식경기"}}, nil
}

func TestLoader_Load(t *testing.T) {
	cat, err := catalog.NewLoader(fakeSource{}).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, cat.Positions(), 2)
	assert.Len(t, cat.Players(), 1)
	assert.Equal(t, []string{"ICON"}, cat.SeasonOptions())
	assert.Equal(t, []string{"공식경기"}, cat.MatchTypeOptions())

	season, ok := cat.SeasonByName("ICON")
	require.True(t, ok)
	assert.Equal(t, 101, season.ID)

	_, ok = cat.SeasonByName("")
	assert.False(t, ok)

	mt, ok := cat.MatchTypeByDesc("공식경기")
	require.True(t, ok)
	assert.Equal(t, 50, mt.Code)
	assert.False(t, cat.FetchedAt.IsZero())
}

func TestLoader_AnyFailureIsFatal(t *testing.T) {
	for _, failOn := range []string{"positions", "players", "seasons", "matchtypes"} {
		t.Run(failOn, func(t *testing.T) {
			cat, err := catalog.NewLoader(fakeSource{failOn: failOn}).Load(context.Background())
			assert.Nil(t, cat)
			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrReferenceFetch)
			assert.ErrorIs(t, err, errDown)

			var fetchErr *catalog.FetchError
			assert.True(t, errors.As(err, &fetchErr))
		})
	}
}
