// Package cli provides the command-line interface to the assistant.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omarshaarawi/fcbot/internal/models"
	"github.com/omarshaarawi/fcbot/internal/service"
)

const sessionKey = "cli"

// Backend is what the commands need from a wired application.
type Backend struct {
	Assistant *service.AssistantService
	Videos    service.VideoSearcher
}

// BuildFunc wires a backend on first use, so --help works without
// credentials.
type BuildFunc func(ctx context.Context) (*Backend, error)

func NewRootCmd(build BuildFunc) *cobra.Command {
	var format string

	rootCmd := &cobra.Command{
		Use:   "fcbot-cli",
		Short: "FC Online assistant from the command line",
		Long: `fcbot-cli answers FC Online questions: player stats from the Nexon
open API ranker data and instructional videos ranked by likes.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !validFormat(format) {
				return fmt.Errorf("unknown format %q (table|json|markdown)", format)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", FormatTable, "Output format (table|json|markdown)")
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatJSON, FormatMarkdown}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newAskCommand(build, &format))
	rootCmd.AddCommand(newStatsCommand(build, &format))
	rootCmd.AddCommand(newVideosCommand(build, &format))
	rootCmd.AddCommand(newSeasonsCommand(build))

	return rootCmd
}

func newAskCommand(build BuildFunc, format *string) *cobra.Command {
	var season, match string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a free-text question",
		Example: `  fcbot-cli ask "게임 내 메시 경기 평균 스탯은?" --season ICON --match 공식경기
  fcbot-cli ask "FC Online 메시 활용법 영상 추천해줘."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := build(cmd.Context())
			if err != nil {
				return err
			}

			reply, err := b.Assistant.Ask(cmd.Context(), sessionKey, strings.Join(args, " "))
			if err != nil {
				return userError(err)
			}
			if reply.Kind == service.ReplyPrompt && season != "" && match != "" {
				reply, err = b.Assistant.CompleteStats(cmd.Context(), sessionKey, season, match)
				if err != nil {
					return userError(err)
				}
			}
			return renderReply(cmd.OutOrStdout(), reply, *format)
		},
	}

	cmd.Flags().StringVar(&season, "season", "", "Season display name for stats questions")
	cmd.Flags().StringVar(&match, "match", "", "Match type for stats questions")
	return cmd
}

func newStatsCommand(build BuildFunc, format *string) *cobra.Command {
	var season, match, policy string

	cmd := &cobra.Command{
		Use:     "stats <player>",
		Short:   "Aggregate ranker stats for a player",
		Example: `  fcbot-cli stats 메시 --season ICON --match 공식경기 --policy distribution`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := build(cmd.Context())
			if err != nil {
				return err
			}

			if policy != "" {
				if _, err := b.Assistant.SetPolicy(cmd.Context(), sessionKey, policy); err != nil {
					return userError(err)
				}
			}

			reply, err := b.Assistant.Stats(cmd.Context(), sessionKey, strings.Join(args, " "), season, match)
			if err != nil {
				return userError(err)
			}
			return renderReply(cmd.OutOrStdout(), reply, *format)
		},
	}

	cmd.Flags().StringVar(&season, "season", "", "Season display name")
	cmd.Flags().StringVar(&match, "match", "", "Match type")
	cmd.Flags().StringVar(&policy, "policy", "", "Aggregation policy (weighted|distribution)")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("match")
	return cmd
}

func newVideosCommand(build BuildFunc, format *string) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "videos <keyword>",
		Short: "Search videos ranked by likes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := build(cmd.Context())
			if err != nil {
				return err
			}

			keyword := strings.Join(args, " ")
			results, err := b.Videos.Search(cmd.Context(), keyword, maxResults)
			if err != nil {
				return userError(err)
			}

			reply := service.Reply{Kind: service.ReplyVideos, Videos: results}
			if *format == FormatMarkdown || *format == "md" {
				reply.Text = markdownVideos(keyword, results)
			}
			return renderReply(cmd.OutOrStdout(), reply, *format)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "n", 0, "Maximum number of videos (default from config)")
	return cmd
}

func newSeasonsCommand(build BuildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "List season display names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := build(cmd.Context())
			if err != nil {
				return err
			}

			opts, err := b.Assistant.Options(cmd.Context(), sessionKey)
			if err != nil {
				return userError(err)
			}
			for _, s := range opts.Seasons {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func markdownVideos(keyword string, results []models.VideoResult) string {
	if len(results) == 0 {
		return service.NoVideosMessage
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", keyword))
	for i, v := range results {
		sb.WriteString(fmt.Sprintf("%d. [%s](%s) - %s, %d likes\n", i+1, v.Title, v.URL, v.Channel, v.LikeCount))
	}
	return sb.String()
}

// userError prefixes err with the message a chat user would see.
func userError(err error) error {
	return fmt.Errorf("%s: %w", service.UserMessage(err), err)
}
