package bot

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/omarshaarawi/fcbot/internal/models"
	"github.com/omarshaarawi/fcbot/internal/repository/memory"
	"github.com/omarshaarawi/fcbot/internal/resolver"
	"github.com/omarshaarawi/fcbot/internal/service"
)

type stubCatalogs struct{}

func (stubCatalogs) Load(context.Context) (*models.Catalog, error) {
	return models.NewCatalog(
		[]models.Position{{Code: 25, Name: "ST"}},
		[]models.PlayerRecord{{ID: 100000158, Name: "메시"}},
		[]models.Season{{ID: 100, ClassName: "ICON"}},
		[]models.MatchType{{Code: 50, Desc: "공식경기"}},
	), nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, query string) (models.ClassifiedQuery, error) {
	if strings.Contains(query, "스탯") {
		return models.ClassifiedQuery{Action: models.ActionAdditionalInput, ActionInput: query, SearchKeyword: "메시"}, nil
	}
	return models.ClassifiedQuery{Action: models.ActionNotSupported, ActionInput: query}, nil
}

type stubAggregator struct{}

func (stubAggregator) Aggregate(_ context.Context, positions []models.Position, playerID int64, matchType int, policy models.AggregationPolicy) (*models.AggregatedStats, error) {
	return &models.AggregatedStats{
		Policy:     policy,
		PlayerID:   playerID,
		MatchType:  matchType,
		Totals:     map[string]float64{models.FieldGoal: 5},
		MatchCount: 10,
		Positions:  positions,
	}, nil
}

type stubVideos struct{}

func (stubVideos) Search(context.Context, string, int) ([]models.VideoResult, error) {
	return nil, nil
}

func newHandler() *Handler {
	svc := service.NewAssistantService(service.Components{
		Catalogs:   stubCatalogs{},
		Classifier: stubClassifier{},
		Resolver:   resolver.New(),
		Aggregator: stubAggregator{},
		Videos:     stubVideos{},
	}, memory.NewRepository(), models.PolicyWeighted)
	return NewHandler(svc)
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i != -1 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
	}}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"help", "/help", "/select <시즌> | <경기 유형>"},
		{"seasons", "/seasons", "• ICON"},
		{"matches", "/matches", "• 공식경기"},
		{"select without args", "/select", "사용법: /select"},
		{"select without pending request", "/select ICON | 공식경기", "먼저 선수 스탯을 질문해 주세요"},
		{"mode", "/mode distribution", "distribution"},
		{"bad mode", "/mode boxplot", "weighted 또는 distribution"},
		{"reset", "/reset", "초기화"},
		{"unknown", "/scores", "알 수 없는 명령어"},
	}

	h := newHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := h.HandleCommand(context.Background(), commandUpdate(7, tt.text))
			assert.Equal(t, int64(7), msg.ChatID)
			assert.Contains(t, msg.Text, tt.want)
		})
	}
}

func TestHandleText_StatsConversation(t *testing.T) {
	h := newHandler()
	ctx := context.Background()

	msg := h.HandleText(ctx, textUpdate(7, "게임 내 메시 경기 평균 스탯은?"))
	assert.Contains(t, msg.Text, "시즌과 경기 유형을 선택해 주세요")

	msg = h.HandleCommand(ctx, commandUpdate(7, "/select ICON | 공식경기"))
	assert.Contains(t, msg.Text, "*메시* (ICON · 공식경기)")
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)

	// another chat has its own session
	msg = h.HandleCommand(ctx, commandUpdate(8, "/select ICON | 공식경기"))
	assert.Contains(t, msg.Text, "먼저 선수 스탯을 질문해 주세요")
}

func TestHandleText_Decline(t *testing.T) {
	msg := newHandler().HandleText(context.Background(), textUpdate(7, "챔피언스리그 결과 알려줘."))
	assert.Equal(t, service.DeclineMessage, msg.Text)
}
