package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rejimde/terminal/internal/session"
)

func newWhoamiCmd(configPath *string) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session, optionally server-confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			snap := e.sessions.Current()
			if !snap.LoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", snap.DisplayName, snap.Role)
			if exp := session.TokenExpiry(snap.Token); !exp.IsZero() {
				if session.TokenExpired(snap.Token, time.Now()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Token expired — run `rejimde login`.")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Token valid until %s\n", exp.Format(time.RFC1123))
				}
			}

			if remote {
				// The validate endpoint is the authoritative token check;
				// the expiry printed above is only the local claim.
				if err := e.auth.Validate(cmd.Context()); err != nil {
					return fmt.Errorf("confirming with backend: %w", err)
				}
				profile, err := e.client.Me(cmd.Context())
				if err != nil {
					return fmt.Errorf("confirming with backend: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Confirmed: %s (%s), level %d, %d points\n",
					profile.DisplayName, profile.Role, profile.Level, profile.Points,
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "confirm the session with the backend")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rejimde %s\n", version)
		},
	}
}

// version is set at build time with -ldflags.
var version = "dev"
