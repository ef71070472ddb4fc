package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teemow/slotfinder/internal/scheduling"
)

func newApplyCmd(opts *rootOptions) *cobra.Command {
	req := scheduling.ApplyRescheduleRequest{}

	cmd := &cobra.Command{
		Use:     "apply <event-id>",
		Short:   "Move an event to a new time",
		Long:    `Move an event to a new time. Only the start and end times are changed.`,
		Example: `  slotfinder apply abc123 --start 2025-01-16T10:00:00Z --end 2025-01-16T11:00:00Z`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.loadEngine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req.Account = opts.account
			req.EventID = args[0]
			result, err := e.service(nil).ApplyReschedule(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&req.CalendarID, "calendar", scheduling.PrimaryCalendarID, "Calendar containing the event")
	cmd.Flags().StringVar(&req.NewStart, "start", "", "New start (RFC3339)")
	cmd.Flags().StringVar(&req.NewEnd, "end", "", "New end (RFC3339)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
