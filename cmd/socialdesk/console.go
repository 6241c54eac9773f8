package main

import (
	"github.com/spf13/cobra"

	"socialdesk/internal/cmdlog"
	"socialdesk/internal/console"
	"socialdesk/internal/tui"
)

func newTUICmd(load loader) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(true)
			if err != nil {
				return err
			}
			defer a.Close()
			if start == "" {
				start = a.cfg.Console.StartPage
			}
			env := console.Env{
				Client:       a.client,
				Location:     a.cfg.Console.Location(),
				PollInterval: a.cfg.Console.PollInterval,
				NotifyTTL:    a.cfg.Console.NotifyTTL,
				CallTimeout:  a.cfg.API.Timeout,
				Source:       "tui",
			}
			opts := tui.Options{Env: env, Start: start}
			if a.journal != nil {
				opts.Env.Journal = a.journal
				opts.State = a.journal
			}
			return cmdlog.Run("tui", func() error { return tui.Run(opts) })
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "page to open: dashboard, schedule-post, scheduled-posts, pending-comments, events, templates")
	return cmd
}
