package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/fcbot/internal/service"
)

const helpText = `사용 가능한 명령어:
/seasons - 시즌 목록
/matches - 경기 유형 목록
/select <시즌> | <경기 유형> - 선수 스탯 조회
/mode weighted|distribution - 집계 방식 변경
/reset - 대화 초기화

질문 예시:
• 게임 내 메시 경기 평균 스탯은?
• FC Online 메시 활용법 영상 추천해줘.`

type Handler struct {
	assistant *service.AssistantService
}

func NewHandler(assistant *service.AssistantService) *Handler {
	return &Handler{assistant: assistant}
}

func sessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	key := sessionKey(update.Message.Chat.ID)
	msg.ParseMode = tgbotapi.ModeMarkdown

	switch command {
	case "start":
		msg.Text = "⚽ FC Online 도우미입니다. 선수 스탯이나 공략 영상을 물어보세요. /help 로 명령어를 확인할 수 있습니다."
	case "help":
		msg.Text = helpText
		msg.ParseMode = ""
	case "seasons":
		h.handleSeasons(ctx, &msg, key)
	case "matches":
		h.handleMatchTypes(ctx, &msg, key)
	case "select":
		h.handleSelect(ctx, &msg, key, args)
	case "mode":
		h.handleMode(ctx, &msg, key, args)
	case "reset":
		h.assistant.Reset(key)
		msg.Text = "🔄 대화를 초기화했습니다."
	default:
		msg.Text = "알 수 없는 명령어입니다. /help 로 명령어를 확인하세요."
	}

	return msg
}

func (h *Handler) HandleText(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	msg.ParseMode = tgbotapi.ModeMarkdown

	reply, err := h.assistant.Ask(ctx, sessionKey(update.Message.Chat.ID), update.Message.Text)
	if err != nil {
		setError(&msg, err)
		return msg
	}
	msg.Text = reply.Text
	msg.DisableWebPagePreview = reply.Kind == service.ReplyVideos
	return msg
}

func (h *Handler) handleSeasons(ctx context.Context, msg *tgbotapi.MessageConfig, key string) {
	text, err := h.assistant.Seasons(ctx, key)
	if err != nil {
		setError(msg, err)
		return
	}
	msg.Text = text
}

func (h *Handler) handleMatchTypes(ctx context.Context, msg *tgbotapi.MessageConfig, key string) {
	text, err := h.assistant.MatchTypes(ctx, key)
	if err != nil {
		setError(msg, err)
		return
	}
	msg.Text = text
}

func (h *Handler) handleSelect(ctx context.Context, msg *tgbotapi.MessageConfig, key, args string) {
	season, match, ok := strings.Cut(args, "|")
	if !ok || strings.TrimSpace(season) == "" || strings.TrimSpace(match) == "" {
		msg.Text = "사용법: /select <시즌> | <경기 유형>"
		msg.ParseMode = ""
		return
	}

	reply, err := h.assistant.CompleteStats(ctx, key, season, match)
	if err != nil {
		setError(msg, err)
		return
	}
	msg.Text = reply.Text
}

func (h *Handler) handleMode(ctx context.Context, msg *tgbotapi.MessageConfig, key, args string) {
	if args == "" {
		msg.Text = "사용법: /mode weighted|distribution"
		msg.ParseMode = ""
		return
	}

	policy, err := h.assistant.SetPolicy(ctx, key, args)
	if err != nil {
		setError(msg, err)
		return
	}
	msg.Text = fmt.Sprintf("집계 방식을 %s(으)로 변경했습니다.", policy)
}

func setError(msg *tgbotapi.MessageConfig, err error) {
	msg.Text = service.UserMessage(err)
	msg.ParseMode = ""
}
