package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/session"
)

type fakeProfiles struct {
	profile *model.Profile
	err     error
	calls   int
}

func (f *fakeProfiles) Me(ctx context.Context) (*model.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeSessions struct {
	snap     session.Snapshot
	setRoles []model.Role
}

func (f *fakeSessions) Current() session.Snapshot { return f.snap }

func (f *fakeSessions) SetRole(role model.Role) error {
	f.snap.Role = role
	f.setRoles = append(f.setRoles, role)
	return nil
}

func sessionWith(role model.Role) *fakeSessions {
	return &fakeSessions{snap: session.Snapshot{Token: "token", Role: role, UserID: 7}}
}

func TestDecideNoTokenRedirectsToLogin(t *testing.T) {
	g := New(DefaultPolicy(), &fakeProfiles{}, &fakeSessions{}, nil)

	for _, section := range []Section{SectionUser, SectionPro} {
		d := g.Decide(section)
		assert.False(t, d.Allow, "section %s", section)
		assert.Equal(t, SectionLogin, d.RedirectTo)
	}

	// Public surfaces never require a session.
	assert.True(t, g.Decide(SectionPublic).Allow)
	assert.True(t, g.Decide(SectionLogin).Allow)
}

func TestDecideRoleGating(t *testing.T) {
	cases := []struct {
		role     model.Role
		section  Section
		allow    bool
		redirect Section
	}{
		{model.RoleUser, SectionUser, true, 0},
		{model.RoleUser, SectionPro, false, SectionUser},
		{model.RolePro, SectionPro, true, 0},
		{model.RolePro, SectionUser, false, SectionPro},
		{model.RoleAdministrator, SectionUser, true, 0},
		{model.RoleAdministrator, SectionPro, true, 0},
		{model.RoleEditor, SectionUser, true, 0},
		{model.RoleEditor, SectionPro, false, SectionUser},
	}

	for _, tc := range cases {
		g := New(DefaultPolicy(), &fakeProfiles{}, sessionWith(tc.role), nil)
		d := g.Decide(tc.section)
		assert.Equal(t, tc.allow, d.Allow, "%s entering %s", tc.role, tc.section)
		if !tc.allow {
			assert.Equal(t, tc.redirect, d.RedirectTo, "%s entering %s", tc.role, tc.section)
		}
	}
}

func TestReconcileTrustsCacheOnNetworkError(t *testing.T) {
	sessions := sessionWith(model.RolePro)
	profiles := &fakeProfiles{err: errors.New("dial tcp: connection refused")}
	g := New(DefaultPolicy(), profiles, sessions, nil)

	d := g.Reconcile(context.Background(), SectionPro)
	assert.True(t, d.Allow, "an unreachable backend must not evict the viewer")
	assert.Empty(t, sessions.setRoles)
}

func TestReconcileStrictPolicyRedirectsOnNetworkError(t *testing.T) {
	policy := Policy{ReconcileTimeout: time.Second, TrustCacheOnError: false}
	profiles := &fakeProfiles{err: errors.New("dial tcp: connection refused")}
	g := New(policy, profiles, sessionWith(model.RolePro), nil)

	d := g.Reconcile(context.Background(), SectionPro)
	assert.False(t, d.Allow)
	assert.Equal(t, SectionLogin, d.RedirectTo)
}

func TestReconcileAuthErrorRedirectsToLogin(t *testing.T) {
	profiles := &fakeProfiles{err: &api.AuthError{Endpoint: "/rejimde/v1/me"}}
	g := New(DefaultPolicy(), profiles, sessionWith(model.RolePro), nil)

	d := g.Reconcile(context.Background(), SectionPro)
	assert.False(t, d.Allow)
	assert.Equal(t, SectionLogin, d.RedirectTo)
}

func TestReconcileCorrectsContradictedRole(t *testing.T) {
	sessions := sessionWith(model.RolePro)
	profiles := &fakeProfiles{profile: &model.Profile{Role: model.RoleUser}}
	g := New(DefaultPolicy(), profiles, sessions, nil)

	d := g.Reconcile(context.Background(), SectionPro)
	assert.False(t, d.Allow, "backend role wins over the cached one")
	assert.Equal(t, SectionUser, d.RedirectTo)
	assert.Equal(t, []model.Role{model.RoleUser}, sessions.setRoles)
}

func TestReconcileConfirmsMatchingRole(t *testing.T) {
	sessions := sessionWith(model.RolePro)
	profiles := &fakeProfiles{profile: &model.Profile{Role: model.RolePro}}
	g := New(DefaultPolicy(), profiles, sessions, nil)

	d := g.Reconcile(context.Background(), SectionPro)
	assert.True(t, d.Allow)
	assert.Empty(t, sessions.setRoles)
	require.Equal(t, 1, profiles.calls)
}

func TestReconcileNoTokenSkipsBackendCall(t *testing.T) {
	profiles := &fakeProfiles{profile: &model.Profile{Role: model.RoleUser}}
	g := New(DefaultPolicy(), profiles, &fakeSessions{}, nil)

	d := g.Reconcile(context.Background(), SectionUser)
	assert.False(t, d.Allow)
	assert.Equal(t, SectionLogin, d.RedirectTo)
	assert.Zero(t, profiles.calls)
}

func TestHomeSection(t *testing.T) {
	assert.Equal(t, SectionPro, HomeSection(model.RolePro))
	assert.Equal(t, SectionUser, HomeSection(model.RoleUser))
	assert.Equal(t, SectionUser, HomeSection(model.RoleAdministrator))
}
