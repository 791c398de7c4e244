package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/omarshaarawi/fcbot/internal/models"
	"github.com/omarshaarawi/fcbot/internal/service"
	"github.com/omarshaarawi/fcbot/internal/stats"
)

const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

func validFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatMarkdown, "md":
		return true
	}
	return false
}

func renderReply(w io.Writer, reply service.Reply, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reply)
	case FormatMarkdown, "md":
		_, err := fmt.Fprintln(w, reply.Text)
		return err
	}

	switch reply.Kind {
	case service.ReplyStats:
		renderStats(w, reply.Stats)
	case service.ReplyVideos:
		renderVideos(w, reply.Videos)
	case service.ReplyPrompt:
		renderOptions(w, reply.Options)
	default:
		_, _ = fmt.Fprintln(w, reply.Text)
	}
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderStats(w io.Writer, agg *models.AggregatedStats) {
	if agg.Empty() {
		_, _ = fmt.Fprintln(w, service.NoPlayerDataMessage)
		return
	}

	t := newTable(w)
	if agg.Policy == models.PolicyDistribution {
		t.AppendHeader(table.Row{"항목", "최소", "중앙값", "최대"})
		for _, field := range stats.DistributionFields {
			values := agg.Distribution[field]
			if len(values) == 0 {
				continue
			}
			lo, mid, hi := stats.Summarize(values)
			t.AppendRow(table.Row{models.StatLabel(field), fmt.Sprintf("%.2f", lo), fmt.Sprintf("%.2f", mid), fmt.Sprintf("%.2f", hi)})
		}
	} else {
		t.AppendHeader(table.Row{"항목", "경기당 평균", "합계"})
		averages := agg.Averages()
		for _, field := range models.StatFields {
			total, ok := agg.Totals[field]
			if !ok {
				continue
			}
			t.AppendRow(table.Row{models.StatLabel(field), fmt.Sprintf("%.2f", averages[field]), fmt.Sprintf("%.2f", total)})
		}
	}
	t.AppendFooter(table.Row{models.StatLabel(models.FieldMatchCount), fmt.Sprintf("%.0f", agg.MatchCount)})
	t.Render()

	if len(agg.Skipped) > 0 {
		names := make([]string, len(agg.Skipped))
		for i, p := range agg.Skipped {
			names[i] = p.Name
		}
		_, _ = fmt.Fprintf(w, "데이터 없는 포지션: %s\n", strings.Join(names, ", "))
	}
}

func renderVideos(w io.Writer, videos []models.VideoResult) {
	if len(videos) == 0 {
		_, _ = fmt.Fprintln(w, service.NoVideosMessage)
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "제목", "채널", "좋아요", "조회수", "URL"})
	for i, v := range videos {
		t.AppendRow(table.Row{i + 1, v.Title, v.Channel, v.LikeCount, v.ViewCount, v.URL})
	}
	t.Render()
}

func renderOptions(w io.Writer, opts *service.Options) {
	_, _ = fmt.Fprintln(w, "시즌과 경기 유형을 --season, --match 로 지정해 주세요.")
	if opts == nil {
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"경기 유형"})
	for _, m := range opts.MatchTypes {
		t.AppendRow(table.Row{m})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "시즌 %d개 (fcbot-cli seasons 로 확인)\n", len(opts.Seasons))
}
