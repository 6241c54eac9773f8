package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"socialdesk/internal/model"
	"socialdesk/internal/schedule"
	"socialdesk/internal/util"
)

func newCommentsCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{Use: "comments", Short: "Work the pending comment queue"}
	cmd.AddCommand(newCommentsListCmd(load), newCommentsRespondCmd(load))
	return cmd
}

func newCommentsListCmd(load loader) *cobra.Command {
	var keywords []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List comments waiting for a reply",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.run("comments_list", func() error {
				cs, err := a.client.ListPendingComments(cmd.Context())
				if err != nil {
					return err
				}
				loc := a.cfg.Console.Location()
				t := table.New().Headers("ID", "USER", "PLATFORM", "CLASS", "WHEN", "TEXT")
				for _, c := range cs {
					if !util.ContainsAnyCaseInsensitive(c.Text, keywords) {
						continue
					}
					t.Row(c.ID, util.Truncate(c.UserName, 16), model.PlatformName(c.Platform), c.Classification,
						schedule.FormatDisplay(c.Timestamp, loc), util.Preview(c.Text, 60))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "only comments containing any of these words")
	return cmd
}

func newCommentsRespondCmd(load loader) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "respond COMMENT_ID",
		Short: "Reply to a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (model.RespondRequest{ResponseText: text}).Validate(); err != nil {
				return fmt.Errorf("please enter a response: %w", err)
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			id := args[0]
			return a.act(cmd.Context(), "respond_comment", id, func() error {
				if _, err := a.client.RespondToComment(cmd.Context(), id, text); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Response sent successfully")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "reply text")
	return cmd
}
