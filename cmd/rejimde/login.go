package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(configPath *string) *cobra.Command {
	var google bool
	var googleClientID, googleClientSecret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session in the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if google {
				if googleClientID == "" {
					return fmt.Errorf("--google requires --google-client-id")
				}
				snap, err := e.auth.GoogleLogin(cmd.Context(), googleClientID, googleClientSecret,
					func(url string) error {
						fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to continue:\n\n  %s\n\n", url)
						return nil
					})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", snap.DisplayName, snap.Role)
				return nil
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			fmt.Fprint(cmd.OutOrStdout(), "Username: ")
			username, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading username: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			password, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}

			snap, err := e.auth.Login(cmd.Context(), strings.TrimSpace(username), string(password))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", snap.DisplayName, snap.Role)
			return nil
		},
	}

	cmd.Flags().BoolVar(&google, "google", false, "sign in with Google")
	cmd.Flags().StringVar(&googleClientID, "google-client-id", "", "Google OAuth client id")
	cmd.Flags().StringVar(&googleClientSecret, "google-client-secret", "", "Google OAuth client secret")
	return cmd
}

func newLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if err := e.auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
