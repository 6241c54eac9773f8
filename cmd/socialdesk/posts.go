package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"socialdesk/internal/model"
	"socialdesk/internal/schedule"
	"socialdesk/internal/util"
)

func newPostsCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{Use: "posts", Short: "List, edit and cancel scheduled posts"}
	cmd.AddCommand(newPostsListCmd(load), newPostsEditCmd(load), newPostsCancelCmd(load))
	return cmd
}

func newPostsListCmd(load loader) *cobra.Command {
	var platform, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled posts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.run("posts_list", func() error {
				posts, err := a.client.ListPosts(cmd.Context())
				if err != nil {
					return err
				}
				loc := a.cfg.Console.Location()
				t := table.New().Headers("ID", "PLATFORM", "WHEN", "IN", "STATUS", "CONTENT")
				for _, p := range sortedPosts(posts, loc) {
					if platform != "" && !strings.EqualFold(p.Platform, platform) {
						continue
					}
					if status != "" && !strings.EqualFold(p.Status, status) {
						continue
					}
					t.Row(p.ID, model.PlatformName(p.Platform), schedule.FormatDisplay(p.ScheduledTime, loc),
						schedule.TimeUntil(p.ScheduledTime, nowFunc()), p.Status, util.Preview(p.ContentPreview, 50))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "only this platform")
	cmd.Flags().StringVar(&status, "status", "", "only this status")
	return cmd
}

func newPostsEditCmd(load loader) *cobra.Command {
	var content, when string
	cmd := &cobra.Command{
		Use:   "edit POST_ID",
		Short: "Change a post's content or scheduled time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			id := args[0]
			var req model.UpdatePostRequest
			if cmd.Flags().Changed("content") {
				req.NewContent = &content
			}
			if cmd.Flags().Changed("time") {
				canonical, err := schedule.CanonicalFromEditable(when, a.cfg.Console.Location())
				if err != nil {
					return fmt.Errorf("--time: %w", err)
				}
				req.NewTime = &canonical
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("%w: pass --content and/or --time", err)
			}
			return a.act(cmd.Context(), "edit_post", id, func() error {
				if _, err := a.client.UpdatePost(cmd.Context(), id, req); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Post updated successfully")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "new post content")
	cmd.Flags().StringVar(&when, "time", "", "new time as YYYY-MM-DDTHH:MM in the console timezone")
	return cmd
}

func newPostsCancelCmd(load loader) *cobra.Command {
	var platform string
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel POST_ID",
		Short: "Cancel a scheduled post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			ok, err := confirm(cmd, yes, fmt.Sprintf("Cancel post %s?", id))
			if err != nil || !ok {
				return err
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.act(cmd.Context(), "cancel_post", id, func() error {
				if _, err := a.client.CancelPost(cmd.Context(), id, platform); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Post cancelled successfully")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "platform of the post")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newStatsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.run("stats", func() error {
				return printStats(cmd.Context(), cmd, a)
			})
		},
	}
}

func printStats(ctx context.Context, cmd *cobra.Command, a *app) error {
	s, err := a.client.Stats(ctx)
	if err != nil {
		return err
	}
	t := table.New().Headers("METRIC", "COUNT").
		Row("Total posts", comma(s.TotalPosts)).
		Row("Scheduled", comma(s.ScheduledPosts)).
		Row("Published", comma(s.PublishedPosts)).
		Row("Comments", comma(s.TotalComments)).
		Row("Pending comments", comma(s.PendingComments)).
		Row("Events", comma(s.TotalEvents))
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
