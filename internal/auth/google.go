package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rejimde/terminal/internal/session"
)

// googleScopes are the identity scopes requested during Google login.
var googleScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// GoogleLogin runs the local-redirect OAuth flow: it opens a loopback
// listener, directs the user to Google's consent page, exchanges the
// authorization code, and trades the Google ID token for a Rejimde JWT.
// openURL is called with the consent URL; the caller decides how to
// present it (print it, launch a browser).
func (s *Service) GoogleLogin(ctx context.Context, clientID, clientSecret string, openURL func(string) error) (session.Snapshot, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("opening callback listener: %w", err)
	}
	defer listener.Close()

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  fmt.Sprintf("http://%s/callback", listener.Addr().String()),
		Scopes:       googleScopes,
		Endpoint:     google.Endpoint,
	}

	state := fmt.Sprintf("%d", time.Now().UnixNano())
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				errCh <- fmt.Errorf("oauth state mismatch")
				return
			}
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "missing code", http.StatusBadRequest)
				errCh <- fmt.Errorf("oauth callback missing code")
				return
			}
			fmt.Fprintln(w, "Login complete. You can return to the terminal.")
			codeCh <- code
		}),
	}
	go server.Serve(listener)
	defer server.Close()

	if err := openURL(conf.AuthCodeURL(state, oauth2.AccessTypeOffline)); err != nil {
		return session.Snapshot{}, fmt.Errorf("opening consent page: %w", err)
	}

	var code string
	select {
	case <-ctx.Done():
		return session.Snapshot{}, ctx.Err()
	case err := <-errCh:
		return session.Snapshot{}, err
	case code = <-codeCh:
	}

	oauthToken, err := conf.Exchange(ctx, code)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("exchanging authorization code: %w", err)
	}

	idToken, ok := oauthToken.Extra("id_token").(string)
	if !ok || idToken == "" {
		return session.Snapshot{}, fmt.Errorf("google response carried no id_token")
	}

	// The backend verifies the Google token and mints its own JWT.
	var resp tokenResponse
	body := map[string]string{"id_token": idToken}
	if err := s.client.Post(ctx, "/rejimde/v1/auth/google", body, &resp); err != nil {
		return session.Snapshot{}, fmt.Errorf("exchanging google token: %w", err)
	}

	return s.establish(resp)
}
