// Package app wires the clients and pipeline stages into an assistant.
package app

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/fcbot/internal/api/nexon"
	"github.com/omarshaarawi/fcbot/internal/api/youtube"
	"github.com/omarshaarawi/fcbot/internal/catalog"
	"github.com/omarshaarawi/fcbot/internal/classifier"
	"github.com/omarshaarawi/fcbot/internal/config"
	"github.com/omarshaarawi/fcbot/internal/models"
	"github.com/omarshaarawi/fcbot/internal/repository/memory"
	"github.com/omarshaarawi/fcbot/internal/resolver"
	"github.com/omarshaarawi/fcbot/internal/service"
	"github.com/omarshaarawi/fcbot/internal/stats"
	"github.com/omarshaarawi/fcbot/internal/video"
)

type App struct {
	Assistant *service.AssistantService
	Videos    *video.Ranker
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	policy, err := models.ParsePolicy(cfg.Stats.Policy)
	if err != nil {
		return nil, fmt.Errorf("STATS_POLICY: %w", err)
	}

	oracle, err := classifier.NewGeminiOracle(ctx, cfg.Classifier, "")
	if err != nil {
		return nil, err
	}

	nexonAPI := nexon.NewAPI(nexon.NewClient(cfg.NexonAPI))
	ranker := video.NewRanker(youtube.NewClient(cfg.YouTubeAPI), cfg.YouTubeAPI.MaxResults)

	assistant := service.NewAssistantService(service.Components{
		Catalogs:   catalog.NewLoader(nexonAPI),
		Classifier: classifier.New(oracle),
		Resolver:   resolver.New(),
		Aggregator: stats.NewAggregator(nexonAPI, cfg.Stats),
		Videos:     ranker,
	}, memory.NewRepository(), policy)

	return &App{Assistant: assistant, Videos: ranker}, nil
}
