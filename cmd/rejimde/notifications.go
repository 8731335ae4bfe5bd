package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(configPath *string) *cobra.Command {
	var unreadOnly bool
	var markAllRead bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications without starting the full UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if !e.sessions.Current().LoggedIn() {
				return fmt.Errorf("not signed in — run `rejimde login` first")
			}

			if markAllRead {
				if err := e.client.MarkNotificationsRead(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All notifications marked read.")
				return nil
			}

			page, err := e.client.Notifications(cmd.Context())
			if err != nil {
				// The one-shot command degrades the same way the UI
				// does: empty view, warning in the log.
				fmt.Fprintln(cmd.OutOrStdout(), "Notifications unavailable.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n\n", page.CountUnread())
			for _, n := range page.Notifications {
				if unreadOnly && n.Read {
					continue
				}
				marker := " "
				if !n.Read {
					marker = "●"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s (%s)\n",
					marker, n.Category, n.Title, n.CreatedAt.Format("2 Jan 15:04"),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "show only unread notifications")
	cmd.Flags().BoolVar(&markAllRead, "mark-all-read", false, "mark every notification read")
	return cmd
}
