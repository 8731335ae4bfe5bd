// Package auth implements the login flows against the backend's
// JWT token endpoints.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/session"
)

// tokenResponse is the payload returned by /jwt-auth/v1/token and the
// Google exchange endpoint.
type tokenResponse struct {
	Token       string `json:"token"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"user_display_name"`
	Role        string `json:"role"`
}

// Service drives login and logout against the backend and the local
// session store.
type Service struct {
	client   *api.Client
	sessions *session.Store
}

// New creates an auth service.
func New(client *api.Client, sessions *session.Store) *Service {
	return &Service{client: client, sessions: sessions}
}

// Login exchanges username/password for a JWT and persists the
// resulting session.
func (s *Service) Login(ctx context.Context, username, password string) (session.Snapshot, error) {
	body := map[string]string{
		"username":  username,
		"password":  password,
		"device_id": uuid.NewString(),
	}

	var resp tokenResponse
	if err := s.client.Post(ctx, "/jwt-auth/v1/token", body, &resp); err != nil {
		return session.Snapshot{}, fmt.Errorf("logging in: %w", err)
	}

	return s.establish(resp)
}

// Validate asks the backend whether the current token is still
// accepted.
func (s *Service) Validate(ctx context.Context) error {
	if err := s.client.Post(ctx, "/jwt-auth/v1/token/validate", nil, nil); err != nil {
		return fmt.Errorf("validating token: %w", err)
	}
	return nil
}

// Logout clears the local session. The backend keeps no server-side
// session to revoke.
func (s *Service) Logout() error {
	return s.sessions.Logout()
}

// establish persists a token response as the active session.
func (s *Service) establish(resp tokenResponse) (session.Snapshot, error) {
	role := model.Role(resp.Role)
	if role == "" {
		role = model.RoleUser
	}

	snap := session.Snapshot{
		Token:       resp.Token,
		Role:        role,
		UserID:      resp.UserID,
		DisplayName: resp.DisplayName,
	}
	if err := s.sessions.Login(snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("persisting session: %w", err)
	}
	return snap, nil
}
