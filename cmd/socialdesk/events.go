package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"socialdesk/internal/model"
	"socialdesk/internal/schedule"
	"socialdesk/internal/theme"
	"socialdesk/internal/util"
)

func newEventsCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{Use: "events", Short: "Manage campaign events"}
	cmd.AddCommand(
		newEventsListCmd(load),
		newEventsShowCmd(load),
		newEventsCreateCmd(load),
		newEventsUpdateCmd(load),
		newEventsDeleteCmd(load),
	)
	return cmd
}

func newEventsListCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.run("events_list", func() error {
				evs, err := a.client.ListEvents(cmd.Context())
				if err != nil {
					return err
				}
				t := table.New().Headers("ID", "WHEN", "TITLE", "RECORDED", "DESCRIPTION")
				for _, e := range evs {
					t.Row(e.ID, schedule.EventDisplay(e.Date, e.Time), util.Truncate(e.Title, 30), e.IsRecorded, util.Preview(e.Description, 40))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
}

func newEventsShowCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "show EVENT_ID",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.run("events_show", func() error {
				e, err := a.client.GetEvent(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printEvent(cmd, e)
				return nil
			})
		},
	}
}

func printEvent(cmd *cobra.Command, e model.Event) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, theme.Bold.Render(e.Title))
	fmt.Fprintf(out, "ID:           %s\n", e.ID)
	fmt.Fprintf(out, "When:         %s\n", schedule.EventDisplay(e.Date, e.Time))
	fmt.Fprintf(out, "Recorded:     %s\n", e.IsRecorded)
	if e.RegistrationLink != "" {
		fmt.Fprintf(out, "Registration: %s\n", e.RegistrationLink)
	}
	if e.Description != "" {
		fmt.Fprintln(out, "\n"+e.Description)
	}
}

// eventFlags registers the event form fields on fs and copies the changed ones
// into a request.
type eventFlags struct {
	title, date, clock, description, link string
	recorded                              bool
}

func (f *eventFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "event title")
	fs.StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	fs.StringVar(&f.clock, "time", "", "time as HH:MM")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.link, "link", "", "registration link")
	fs.BoolVar(&f.recorded, "recorded", false, "the event will be recorded")
}

func (f *eventFlags) apply(fs *pflag.FlagSet, r *model.EventRequest) {
	if fs.Changed("title") {
		r.Title = f.title
	}
	if fs.Changed("date") {
		r.Date = f.date
	}
	if fs.Changed("time") {
		r.Time = f.clock
	}
	if fs.Changed("description") {
		r.Description = f.description
	}
	if fs.Changed("link") {
		r.RegistrationLink = f.link
	}
	if fs.Changed("recorded") {
		r.IsRecorded = "No"
		if f.recorded {
			r.IsRecorded = "Yes"
		}
	}
}

func newEventsCreateCmd(load loader) *cobra.Command {
	var ef eventFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := model.NewEventRequest()
			ef.apply(cmd.Flags(), &req)
			if err := req.Validate(); err != nil {
				return err
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.act(cmd.Context(), "create_event", "", func() error {
				e, err := a.client.CreateEvent(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Event created successfully")
				printEvent(cmd, e)
				return nil
			})
		},
	}
	ef.register(cmd.Flags())
	return cmd
}

func newEventsUpdateCmd(load loader) *cobra.Command {
	var ef eventFlags
	cmd := &cobra.Command{
		Use:   "update EVENT_ID",
		Short: "Change an event; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			id := args[0]
			return a.act(cmd.Context(), "update_event", id, func() error {
				cur, err := a.client.GetEvent(cmd.Context(), id)
				if err != nil {
					return err
				}
				req := model.EventRequestFrom(cur)
				ef.apply(cmd.Flags(), &req)
				if err := req.Validate(); err != nil {
					return err
				}
				e, err := a.client.UpdateEvent(cmd.Context(), id, req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Event updated successfully")
				printEvent(cmd, e)
				return nil
			})
		},
	}
	ef.register(cmd.Flags())
	return cmd
}

func newEventsDeleteCmd(load loader) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete EVENT_ID",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			ok, err := confirm(cmd, yes, fmt.Sprintf("Delete event %s?", id))
			if err != nil || !ok {
				return err
			}
			a, err := load(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.act(cmd.Context(), "delete_event", id, func() error {
				if _, err := a.client.DeleteEvent(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Event deleted successfully")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
