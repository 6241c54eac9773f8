package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"socialdesk/internal/model"
	"socialdesk/internal/util"
)

func newTemplatesCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{Use: "templates", Short: "Manage response templates"}
	cmd.AddCommand(newTemplatesListCmd(load), newTemplatesCreateCmd(load))
	return cmd
}

func newTemplatesListCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List response templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.run("templates_list", func() error {
				ts, err := a.client.ListAIResponses(cmd.Context())
				if err != nil {
					return err
				}
				t := table.New().Headers("ID", "TRIGGER", "KEYWORD", "RESPONSE")
				for _, r := range ts {
					t.Row(r.ResponseID, r.TriggerType, r.KeywordMatch, util.Preview(r.ResponseText, 60))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
}

func newTemplatesCreateCmd(load loader) *cobra.Command {
	var req model.AIResponseRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a response template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.act(cmd.Context(), "create_ai_response", "", func() error {
				r, err := a.client.CreateAIResponse(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Template created successfully (%s)\n", r.ResponseID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.TriggerType, "trigger", "", "trigger type, e.g. question or complaint")
	cmd.Flags().StringVar(&req.KeywordMatch, "keyword", "", "keyword that selects this template")
	cmd.Flags().StringVar(&req.ResponseText, "text", "", "response text")
	return cmd
}
