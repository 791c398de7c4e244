package nexon

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/fcbot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) GetPositions(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position
	if err := a.getMeta(ctx, "/spposition.json", &positions); err != nil {
		return nil, fmt.Errorf("fetching positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("fetching positions: %w: empty catalog", ErrMalformedPayload)
	}
	for i, p := range positions {
		if p.Name == "" {
			return nil, fmt.Errorf("fetching positions: %w: record %d has no desc", ErrMalformedPayload, i)
		}
	}
	return positions, nil
}

func (a *API) GetPlayers(ctx context.Context) ([]models.PlayerRecord, error) {
	var players []models.PlayerRecord
	if err := a.getMeta(ctx, "/spid.json", &players); err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("fetching players: %w: empty catalog", ErrMalformedPayload)
	}
	for i, p := range players {
		if p.ID <= 0 || p.Name == "" {
			return nil, fmt.Errorf("fetching players: %w: record %d is missing id or name", ErrMalformedPayload, i)
		}
	}
	return players, nil
}

func (a *API) GetSeasons(ctx context.Context) ([]models.Season, error) {
	var seasons []models.Season
	if err := a.getMeta(ctx, "/seasonid.json", &seasons); err != nil {
		return nil, fmt.Errorf("fetching seasons: %w", err)
	}
	if len(seasons) == 0 {
		return nil, fmt.Errorf("fetching seasons: %w: empty catalog", ErrMalformedPayload)
	}
	for i, s := range seasons {
		if s.ID <= 0 {
			return nil, fmt.Errorf("fetching seasons: %w: record %d has no seasonId", ErrMalformedPayload, i)
		}
	}
	return seasons, nil
}

func (a *API) GetMatchTypes(ctx context.Context) ([]models.MatchType, error) {
	var matchTypes []models.MatchType
	if err := a.getMeta(ctx, "/matchtype.json", &matchTypes); err != nil {
		return nil, fmt.Errorf("fetching match types: %w", err)
	}
	if len(matchTypes) == 0 {
		return nil, fmt.Errorf("fetching match types: %w: empty catalog", ErrMalformedPayload)
	}
	for i, m := range matchTypes {
		if m.Desc == "" {
			return nil, fmt.Errorf("fetching match types: %w: record %d has no desc", ErrMalformedPayload, i)
		}
	}
	return matchTypes, nil
}

func (a *API) getMeta(ctx context.Context, endpoint string, result interface{}) error {
	return a.client.Get(ctx, a.client.Config.StaticURL, endpoint, nil, false, result)
}
