package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"socialdesk/internal/jobs"
	"socialdesk/internal/logging"
	"socialdesk/internal/model"
	"socialdesk/internal/schedule"
	"socialdesk/internal/theme"
	"socialdesk/internal/util"
)

func newScheduleCmd(load loader) *cobra.Command {
	var req model.SchedulePostRequest
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Draft and schedule posts from a prompt",
		Example: `  socialdesk schedule --prompt "Announce the meetup next Friday at 6pm" --platform devto,linkedin
  socialdesk schedule --prompt "Post now: v2 is out"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for i, p := range req.Platforms {
				req.Platforms[i] = strings.ToLower(strings.TrimSpace(p))
			}
			if err := req.Validate(); err != nil {
				return err
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.act(cmd.Context(), "schedule_post", "", func() error {
				res, err := a.client.SchedulePost(cmd.Context(), req)
				if err != nil {
					return err
				}
				if err := res.Err(); err != nil {
					return err
				}
				printScheduleResult(cmd, res, a.cfg.Console.Location())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Prompt, "prompt", "", "what to post and when, in plain language")
	cmd.Flags().StringSliceVar(&req.Platforms, "platform", []string{"devto"}, "target platforms: "+strings.Join(model.KnownPlatforms, ", "))
	return cmd
}

func printScheduleResult(cmd *cobra.Command, r model.ScheduleResult, loc *time.Location) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Post scheduled successfully")
	if r.Immediate {
		fmt.Fprintln(out, theme.Bold.Render("Published immediately"))
	}
	if r.Message != "" {
		fmt.Fprintln(out, theme.Muted.Render(r.Message))
	}
	for _, p := range r.Platforms() {
		sp := r.ScheduledPosts[p]
		head := theme.Bold.Render(model.PlatformName(p))
		if sp.ScheduledTime != "" {
			head += "  " + schedule.FormatDisplay(sp.ScheduledTime, loc)
		}
		fmt.Fprintln(out, theme.Card.Render(head+"\n"+sp.Content))
	}
	if em := r.EventMatching; em != nil && em.MatchedEventTitle != "" {
		fmt.Fprintf(out, "Matched event: %s (%.0f%% confidence)\n", em.MatchedEventTitle, em.Confidence*100)
	} else if r.Event != nil && r.Event.Title != "" {
		fmt.Fprintf(out, "Event: %s %s\n", r.Event.Title, r.Event.Date)
	}
}

func newMonitorCmd(load loader) *cobra.Command {
	var req model.MonitorRequest
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Sweep comments for one published post",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.act(cmd.Context(), "monitor_comments", req.PostID, func() error {
				res, err := a.client.MonitorComments(cmd.Context(), req)
				if err != nil {
					return err
				}
				b, err := yaml.Marshal(res)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&req.PostID, "post-id", "", "our post id")
	cmd.Flags().StringVar(&req.Platform, "platform", "", "platform key")
	cmd.Flags().StringVar(&req.PlatformPostID, "platform-post-id", "", "the post's id on the platform")
	return cmd
}

func newWatchCmd(load loader) *cobra.Command {
	var interval, horizon time.Duration
	var once bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll stats and print comments that arrived since the last pass",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			var store jobs.StateStore
			if a.journal != nil {
				store = a.journal
			}
			pass := func(ctx context.Context) error {
				snap, err := jobs.WatchOnce(ctx, a.client, store, horizon, nowFunc())
				if err != nil {
					logging.Error("watch_pass_failed", map[string]any{"err": err.Error()})
					return nil
				}
				printSnapshot(cmd, snap)
				return nil
			}
			return a.run("watch", func() error {
				if once {
					return pass(cmd.Context())
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				err := jobs.RunWatchLoop(ctx, interval, pass)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "time between passes")
	cmd.Flags().DurationVar(&horizon, "horizon", 24*time.Hour, "look-back window of the first pass")
	cmd.Flags().BoolVar(&once, "once", false, "run a single pass and exit")
	return cmd
}

func printSnapshot(cmd *cobra.Command, s jobs.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  posts %s · scheduled %s · pending comments %s · new %d\n",
		s.At.Format("15:04:05"), comma(s.Stats.TotalPosts), comma(s.Stats.ScheduledPosts),
		comma(s.Stats.PendingComments), len(s.Fresh))
	for _, c := range s.Fresh {
		fmt.Fprintf(out, "  %s %s on %s: %s\n", theme.Accent.Render("new"), c.UserName,
			model.PlatformName(c.Platform), util.Preview(c.Text, 70))
	}
}

func newHistoryCmd(load loader) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent actions from the journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.journal == nil {
				return errors.New("journal is disabled; set storage.journalPath or --journal")
			}
			return a.run("history", func() error {
				entries, err := a.journal.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				t := table.New().Headers("WHEN", "SOURCE", "ACTION", "ENTITY", "OK", "MESSAGE")
				for _, e := range entries {
					ok := "yes"
					if !e.OK {
						ok = "no"
					}
					t.Row(humanize.RelTime(e.TS, nowFunc(), "ago", "from now"), e.Source, e.Action, e.EntityID, ok, util.Truncate(e.Message, 50))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())

				end := nowFunc()
				start := end.Add(-24 * time.Hour)
				all, err := a.journal.CountWithin(cmd.Context(), start, end, "")
				if err != nil {
					return err
				}
				replies, err := a.journal.CountWithin(cmd.Context(), start, end, "respond_comment")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme.Muted.Render(fmt.Sprintf("Last 24h: %s actions, %s replies", comma(all), comma(replies))))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "entries to show")
	return cmd
}
