package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/teemow/slotfinder/internal/scheduling"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		calendarID     string
		allCalendars   bool
		startTime      string
		endTime        string
		excludeEventID string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a proposed time range for conflicts",
		Long: `Check whether a proposed time range overlaps existing events.

By default a single calendar is checked (--calendar, default "primary").
With --all every readable calendar is checked and events that end or start
within the configured nearby buffer (nearby_buffer, default 15m; 0 turns it
off) are reported as nearby events.`,
		Example: `  slotfinder check --start 2025-01-15T10:00:00Z --end 2025-01-15T11:00:00Z
  slotfinder check --all --start 2025-01-15T10:00:00Z --end 2025-01-15T11:00:00Z --exclude-event abc123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !allCalendars && excludeEventID != "" {
				return errors.New("--exclude-event requires --all")
			}

			e, err := opts.loadEngine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc := e.service(nil)

			if allCalendars {
				result, err := svc.CheckEventConflictsAllCalendars(cmd.Context(), scheduling.AllCalendarsConflictRequest{
					Account:        opts.account,
					StartTime:      startTime,
					EndTime:        endTime,
					ExcludeEventID: excludeEventID,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			}

			result, err := svc.CheckEventConflicts(cmd.Context(), scheduling.ConflictCheckRequest{
				Account:    opts.account,
				CalendarID: calendarID,
				StartTime:  startTime,
				EndTime:    endTime,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", scheduling.PrimaryCalendarID, "Calendar ID to check")
	cmd.Flags().BoolVar(&allCalendars, "all", false, "Check every calendar and report nearby events")
	cmd.Flags().StringVar(&startTime, "start", "", "Proposed start (RFC3339)")
	cmd.Flags().StringVar(&endTime, "end", "", "Proposed end (RFC3339)")
	cmd.Flags().StringVar(&excludeEventID, "exclude-event", "", "Event ID to ignore (with --all)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
