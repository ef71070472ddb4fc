package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teemow/slotfinder/internal/scheduling"
)

func newSuggestCmd(opts *rootOptions) *cobra.Command {
	var (
		req             scheduling.RescheduleRequest
		excludeWeekends bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <event-id>",
		Short: "Suggest alternative times for an existing event",
		Long: `Suggest conflict-free alternative times for an existing event.

The search starts tomorrow, considers at most one slot per day and checks
every calendar of the account. Suggestions are ranked by score.`,
		Example: `  slotfinder suggest abc123 --preference morning --days 14 --exclude-weekends`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.loadEngine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req.Account = opts.account
			req.EventID = args[0]
			if cmd.Flags().Changed("exclude-weekends") {
				req.ExcludeWeekends = &excludeWeekends
			}

			result, err := e.service(nil).FindRescheduleSuggestions(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&req.CalendarID, "calendar", scheduling.PrimaryCalendarID, "Calendar containing the event")
	cmd.Flags().StringVar(&req.PreferredTimeOfDay, "preference", "", "Preferred time of day: morning, afternoon, evening or any (default from config)")
	cmd.Flags().IntVar(&req.DaysToSearch, "days", 0, "Number of days to search (default from config)")
	cmd.Flags().BoolVar(&excludeWeekends, "exclude-weekends", false, "Skip Saturdays and Sundays")
	cmd.Flags().StringVar(&req.TimeZone, "timezone", "", "IANA time zone for the search (default: calendar time zone)")
	cmd.Flags().IntVar(&req.MaxResults, "max-results", 0, "Maximum number of suggestions (default from config)")

	return cmd
}
