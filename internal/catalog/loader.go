// Package catalog loads the four static FC Online reference catalogs that a
// session needs before it can resolve players and request ranker stats.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/omarshaarawi/fcbot/internal/models"
)

var ErrReferenceFetch = errors.New("reference data unavailable")

// FetchError names the catalog that could not be loaded.
type FetchError struct {
	Catalog string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("loading %s catalog: %v", e.Catalog, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrReferenceFetch, e.Err}
}

type MetaSource interface {
	GetPositions(ctx context.Context) ([]models.Position, error)
	GetPlayers(ctx context.Context) ([]models.PlayerRecord, error)
	GetSeasons(ctx context.Context) ([]models.Season, error)
	GetMatchTypes(ctx context.Context) ([]models.MatchType, error)
}

type Loader struct {
	source MetaSource
}

func NewLoader(source MetaSource) *Loader {
	return &Loader{source: source}
}

// Load fetches all four catalogs. Either every catalog loads or none is
// returned.
func (l *Loader) Load(ctx context.Context) (*models.Catalog, error) {
	var (
		positions  []models.Position
		players    []models.PlayerRecord
		seasons    []models.Season
		matchTypes []models.MatchType
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		positions, err = l.source.GetPositions(gctx)
		return wrap("position", err)
	})
	g.Go(func() (err error) {
		players, err = l.source.GetPlayers(gctx)
		return wrap("player", err)
	})
	g.Go(func() (err error) {
		seasons, err = l.source.GetSeasons(gctx)
		return wrap("season", err)
	})
	g.Go(func() (err error) {
		matchTypes, err = l.source.GetMatchTypes(gctx)
		return wrap("match type", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Reference catalog loaded",
		"positions", len(positions),
		"players", len(players),
		"seasons", len(seasons),
		"match_types", len(matchTypes))

	return models.NewCatalog(positions, players, seasons, matchTypes), nil
}

func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Catalog: name, Err: err}
}
