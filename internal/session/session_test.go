package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejimde/terminal/internal/model"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"exp": exp.Unix()})

	assert.True(t, TokenExpiry(token).Equal(exp))
}

func TestTokenExpiryWithoutClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "7"})
	assert.True(t, TokenExpiry(token).IsZero())
}

func TestTokenExpiryMalformed(t *testing.T) {
	assert.True(t, TokenExpiry("").IsZero())
	assert.True(t, TokenExpiry("not-a-jwt").IsZero())
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	live := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	stale := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})
	unbounded := signedToken(t, jwt.MapClaims{"sub": "7"})

	assert.False(t, TokenExpired(live, now))
	assert.True(t, TokenExpired(stale, now))
	assert.False(t, TokenExpired(unbounded, now), "a token without expiry never expires locally")
}

func TestSnapshotLoggedIn(t *testing.T) {
	assert.False(t, Snapshot{}.LoggedIn())
	assert.True(t, Snapshot{Token: "token"}.LoggedIn())
}

func TestStoreSubscribeDeliversLatestSnapshot(t *testing.T) {
	s := &Store{}
	ch := s.Subscribe()

	// Two rapid replaces: a slow subscriber misses the intermediate
	// snapshot but always sees the latest one.
	s.replace(Snapshot{Token: "a", Role: model.RoleUser})
	s.replace(Snapshot{Token: "b", Role: model.RolePro})

	select {
	case snap := <-ch:
		assert.Equal(t, "b", snap.Token)
		assert.Equal(t, model.RolePro, snap.Role)
	default:
		t.Fatal("expected a pending snapshot")
	}

	assert.Equal(t, "b", s.Current().Token)
}
