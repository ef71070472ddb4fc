package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/slotfinder/internal/google"
)

func newAuthCmd(opts *rootOptions) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Long: `Authorize slotfinder to read and update your Google Calendar.

Without --code the authorization URL is printed. Open it, grant access and
run the command again with the code shown by Google. Tokens are stored in
the user cache directory and refreshed automatically.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if code == "" {
				if google.HasTokenForAccount(opts.account) {
					fmt.Fprintf(out, "Account %q is already authorized. Re-run with --code to replace the token.\n\n", opts.account)
				}
				authURL, err := google.AuthURL(opts.account)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Visit this URL in your browser:\n\n  %s\n\n", authURL)
				fmt.Fprintf(out, "Then run: slotfinder auth --account %s --code <code>\n", opts.account)
				return nil
			}

			if err := google.ExchangeAndSave(cmd.Context(), opts.account, code); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved Google OAuth token for account %q\n", opts.account)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code returned by Google")

	return cmd
}
