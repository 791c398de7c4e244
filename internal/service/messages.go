package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/omarshaarawi/fcbot/internal/catalog"
	"github.com/omarshaarawi/fcbot/internal/classifier"
	"github.com/omarshaarawi/fcbot/internal/resolver"
	"github.com/omarshaarawi/fcbot/internal/stats"
	"github.com/omarshaarawi/fcbot/internal/video"
)

const (
	DeclineMessage        = "죄송합니다. FC Online 게임 관련 영상만 제공할 수 있습니다."
	PlayerNotFoundMessage = "❎ 입력하신 정보에 일치하는 선수를 찾을 수 없습니다."
	NoVideosMessage       = "검색 결과가 없습니다."
	NoPlayerDataMessage   = "선수 데이터가 없습니다. 다른 시즌이나 경기 유형을 선택해 보세요."
	ReferenceDataMessage  = "기준 데이터를 불러오지 못했습니다. 잠시 후 다시 시도해 주세요."
	GenericFailureMessage = "요청을 처리하는 중 문제가 발생했습니다. 잠시 후 다시 시도해 주세요."
)

// UserMessage converts a failure from any request path into text that can
// be shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var notFound *resolver.NotFoundError
	var ambiguous *resolver.AmbiguousError

	switch {
	case errors.As(err, &notFound):
		if len(notFound.Suggestions) == 0 {
			return PlayerNotFoundMessage
		}
		return fmt.Sprintf("%s\n혹시 이 선수를 찾으셨나요? %s", PlayerNotFoundMessage, strings.Join(notFound.Suggestions, ", "))
	case errors.As(err, &ambiguous):
		ids := make([]string, len(ambiguous.Candidates))
		for i, id := range ambiguous.Candidates {
			ids[i] = fmt.Sprintf("%d", id)
		}
		return fmt.Sprintf("같은 이름과 시즌의 선수가 여러 명 있습니다 (%s). 관리자에게 문의해 주세요.", strings.Join(ids, ", "))
	case errors.Is(err, resolver.ErrUnknownSeason):
		return "알 수 없는 시즌입니다. /seasons 로 시즌 목록을 확인해 주세요."
	case errors.Is(err, ErrUnknownMatchType):
		return "알 수 없는 경기 유형입니다. /matches 로 경기 유형을 확인해 주세요."
	case errors.Is(err, ErrNoPendingRequest):
		return "먼저 선수 스탯을 질문해 주세요. 예: 게임 내 메시 경기 평균 스탯은?"
	case errors.Is(err, ErrInvalidPolicy):
		return "집계 방식은 weighted 또는 distribution 중 하나입니다."
	case errors.Is(err, stats.ErrAggregationEmpty):
		return NoPlayerDataMessage
	case errors.Is(err, catalog.ErrReferenceFetch):
		return ReferenceDataMessage
	case errors.Is(err, classifier.ErrClassification), errors.Is(err, classifier.ErrOracle):
		return GenericFailureMessage
	case errors.Is(err, classifier.ErrEmptyQuery), errors.Is(err, video.ErrEmptyKeyword):
		return "질문을 입력해 주세요."
	case errors.Is(err, video.ErrVideoSearch):
		return "영상 검색에 실패했습니다. 잠시 후 다시 시도해 주세요."
	case errors.Is(err, context.DeadlineExceeded):
		return "응답 시간이 초과되었습니다. 잠시 후 다시 시도해 주세요."
	default:
		slog.Error("Unhandled request failure", "error", err)
		return GenericFailureMessage
	}
}
