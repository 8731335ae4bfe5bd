// Package session is the single authoritative owner of the local
// session state (token, role, identity). Every guard and feed reads
// through it; nothing else touches the keyring.
package session

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rejimde/terminal/internal/model"
)

// Snapshot is an immutable copy of the session state at one point in
// time, delivered to subscribers on every change.
type Snapshot struct {
	Token       string
	Role        model.Role
	UserID      int64
	DisplayName string
}

// LoggedIn reports whether a token is present. Presence only; the
// backend re-checks authorization on every mutating call regardless.
func (s Snapshot) LoggedIn() bool {
	return s.Token != ""
}

// Store holds the in-memory session state backed by the system
// keyring. All reads and writes go through one mutex-guarded path.
type Store struct {
	mu          sync.Mutex
	current     Snapshot
	subscribers []chan Snapshot
}

// Open loads any persisted session from the keyring into a new Store.
// A keyring failure degrades to a logged-out session rather than an
// error: the user can always log in again.
func Open() (*Store, error) {
	s := &Store{}

	ring, err := openKeyring()
	if err != nil {
		return s, fmt.Errorf("loading session: %w", err)
	}

	token, err := getCredential(ring, keyToken)
	if err != nil {
		return s, fmt.Errorf("loading session: %w", err)
	}
	role, _ := getCredential(ring, keyRole)
	rawID, _ := getCredential(ring, keyUserID)
	name, _ := getCredential(ring, keyDisplayName)

	userID, _ := strconv.ParseInt(rawID, 10, 64)

	s.current = Snapshot{
		Token:       token,
		Role:        model.Role(role),
		UserID:      userID,
		DisplayName: name,
	}
	return s, nil
}

// Current returns a copy of the session state.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	return s.Current().Token
}

// Subscribe returns a channel that receives a Snapshot after every
// session change. The channel is buffered; a slow subscriber misses
// intermediate snapshots, never the latest one.
func (s *Store) Subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Login persists a new session and notifies subscribers.
func (s *Store) Login(snap Snapshot) error {
	if err := s.persist(snap); err != nil {
		return err
	}
	s.replace(snap)
	return nil
}

// SetRole updates only the cached role, used when the who-am-I
// reconciliation contradicts the persisted value.
func (s *Store) SetRole(role model.Role) error {
	s.mu.Lock()
	snap := s.current
	s.mu.Unlock()

	snap.Role = role
	if err := s.persist(snap); err != nil {
		return err
	}
	s.replace(snap)
	return nil
}

// Logout clears the persisted session and notifies subscribers.
func (s *Store) Logout() error {
	ring, err := openKeyring()
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	for _, key := range []string{keyToken, keyRole, keyUserID, keyDisplayName} {
		if err := deleteCredential(ring, key); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
	}
	s.replace(Snapshot{})
	return nil
}

// persist writes a snapshot to the keyring.
func (s *Store) persist(snap Snapshot) error {
	ring, err := openKeyring()
	if err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	fields := map[string]string{
		keyToken:       snap.Token,
		keyRole:        string(snap.Role),
		keyUserID:      strconv.FormatInt(snap.UserID, 10),
		keyDisplayName: snap.DisplayName,
	}
	for key, value := range fields {
		if err := setCredential(ring, key, value); err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}
	}
	return nil
}

// replace swaps the in-memory snapshot and fans it out to subscribers
// without blocking on any of them.
func (s *Store) replace(snap Snapshot) {
	s.mu.Lock()
	s.current = snap
	subs := make([]chan Snapshot, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
			// Drain the stale snapshot and replace it with the
			// latest so the subscriber always sees current state.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// TokenExpiry parses the JWT's exp claim without verifying the
// signature (verification is the backend's job) so the UI can prompt
// for re-login before requests start failing. Returns the zero time
// when the token is absent or carries no expiry.
func TokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// TokenExpired reports whether the token exists but is past its expiry.
func TokenExpired(token string, now time.Time) bool {
	exp := TokenExpiry(token)
	return !exp.IsZero() && exp.Before(now)
}
