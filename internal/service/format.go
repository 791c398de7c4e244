package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/fcbot/internal/models"
	"github.com/omarshaarawi/fcbot/internal/stats"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func formatVideos(keyword string, results []models.VideoResult) string {
	if len(results) == 0 {
		return NoVideosMessage
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎬 *%s* 추천 영상\n\n", escape(keyword)))
	for i, v := range results {
		sb.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, escape(v.Title), v.URL))
		sb.WriteString(fmt.Sprintf("   📺 %s", escape(v.Channel)))
		if !v.PublishedAt.IsZero() {
			sb.WriteString(fmt.Sprintf(" | %s", v.PublishedAt.Format("2006-01-02")))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("   👍 %d | 👀 %d\n\n", v.LikeCount, v.ViewCount))
	}
	return sb.String()
}

func formatSelectionPrompt(player string, opts Options) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s* 선수의 시즌과 경기 유형을 선택해 주세요.\n\n", escape(player)))
	if len(opts.MatchTypes) > 0 {
		sb.WriteString(fmt.Sprintf("경기 유형: %s\n", escape(strings.Join(opts.MatchTypes, ", "))))
	}
	sb.WriteString("시즌 목록은 /seasons 로 확인할 수 있습니다.\n\n")
	sb.WriteString("입력 예시: `/select ICON | 공식경기`")
	return sb.String()
}

func formatList(title string, items []string) string {
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	if len(items) == 0 {
		sb.WriteString("없음\n")
		return sb.String()
	}
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• %s\n", escape(item)))
	}
	return sb.String()
}

func formatStats(player, season, match string, agg *models.AggregatedStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *%s* (%s · %s)\n", escape(player), escape(season), escape(match)))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("%s: %.0f\n\n", models.StatLabel(models.FieldMatchCount), agg.MatchCount))

	if agg.Policy == models.PolicyDistribution {
		sb.WriteString("_포지션별 분포 (최소 / 중앙값 / 최대)_\n")
		for _, field := range stats.DistributionFields {
			values := agg.Distribution[field]
			if len(values) == 0 {
				continue
			}
			lo, mid, hi := stats.Summarize(values)
			sb.WriteString(fmt.Sprintf("%s: %.2f / %.2f / %.2f\n", models.StatLabel(field), lo, mid, hi))
		}
	} else {
		sb.WriteString("_경기당 평균 (합계)_\n")
		averages := agg.Averages()
		for _, field := range models.StatFields {
			total, ok := agg.Totals[field]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s: %.2f (%.2f)\n", models.StatLabel(field), averages[field], total))
		}
	}

	if len(agg.Skipped) > 0 {
		names := make([]string, len(agg.Skipped))
		for i, p := range agg.Skipped {
			names[i] = p.Name
		}
		sb.WriteString(fmt.Sprintf("\n⚠️ 데이터 없는 포지션: %s\n", escape(strings.Join(names, ", "))))
	}
	return sb.String()
}
