// Package guard decides whether the viewer may enter a section of the
// app, trusting the locally cached role first and reconciling against
// the backend afterwards.
package guard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/session"
)

// Section is a route family of the app.
type Section int

const (
	SectionPublic Section = iota
	SectionLogin
	SectionUser
	SectionPro
)

// String returns the section name for logging.
func (s Section) String() string {
	switch s {
	case SectionPublic:
		return "public"
	case SectionLogin:
		return "login"
	case SectionUser:
		return "user"
	case SectionPro:
		return "pro"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict for a navigation attempt.
type Decision struct {
	// Allow reports whether the viewer may stay in the section.
	Allow bool

	// RedirectTo is where to send the viewer when Allow is false.
	RedirectTo Section
}

// Profiles is the slice of the API client the guard needs.
type Profiles interface {
	Me(ctx context.Context) (*model.Profile, error)
}

// Sessions is the slice of the session store the guard needs.
type Sessions interface {
	Current() session.Snapshot
	SetRole(role model.Role) error
}

// Policy makes the reconciliation window and failure behavior explicit
// configuration rather than inline code.
type Policy struct {
	// ReconcileTimeout bounds the who-am-I call.
	ReconcileTimeout time.Duration

	// TrustCacheOnError keeps the cached role authoritative when the
	// who-am-I call fails with a network error.
	TrustCacheOnError bool
}

// DefaultPolicy matches the original behavior: a short reconciliation
// window and cached-role trust over transient backend unavailability.
func DefaultPolicy() Policy {
	return Policy{
		ReconcileTimeout:  5 * time.Second,
		TrustCacheOnError: true,
	}
}

// Guard is the single role/session guard consulted on every section
// change.
type Guard struct {
	policy   Policy
	profiles Profiles
	sessions Sessions
	logger   *zap.Logger
}

// New creates a guard.
func New(policy Policy, profiles Profiles, sessions Sessions, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		policy:   policy,
		profiles: profiles,
		sessions: sessions,
		logger:   logger,
	}
}

// Decide returns the optimistic verdict from cached state only. It
// never blocks: a viewer with a plausible cached role renders
// immediately and Reconcile corrects the view afterwards if needed.
func (g *Guard) Decide(section Section) Decision {
	snap := g.sessions.Current()

	if section == SectionPublic || section == SectionLogin {
		return Decision{Allow: true}
	}

	// No token never goes anywhere except login.
	if !snap.LoggedIn() {
		return Decision{Allow: false, RedirectTo: SectionLogin}
	}

	if roleAllowed(section, snap.Role) {
		return Decision{Allow: true}
	}

	return Decision{Allow: false, RedirectTo: HomeSection(snap.Role)}
}

// Reconcile verifies the cached role against the backend. It is meant
// to run off the render path (the app invokes it from a command
// goroutine after the optimistic render). A network failure keeps the
// cached role authoritative when the policy says so.
func (g *Guard) Reconcile(ctx context.Context, section Section) Decision {
	snap := g.sessions.Current()
	if !snap.LoggedIn() {
		return Decision{Allow: false, RedirectTo: SectionLogin}
	}

	ctx, cancel := context.WithTimeout(ctx, g.policy.ReconcileTimeout)
	defer cancel()

	profile, err := g.profiles.Me(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			g.logger.Info("token rejected during reconcile",
				zap.String("section", section.String()))
			return Decision{Allow: false, RedirectTo: SectionLogin}
		}

		if g.policy.TrustCacheOnError {
			g.logger.Warn("who-am-I unreachable, trusting cached role",
				zap.String("section", section.String()),
				zap.String("cached_role", string(snap.Role)),
				zap.Error(err))
			return Decision{Allow: true}
		}
		return Decision{Allow: false, RedirectTo: SectionLogin}
	}

	if profile.Role != snap.Role {
		g.logger.Info("cached role contradicted by backend",
			zap.String("cached", string(snap.Role)),
			zap.String("confirmed", string(profile.Role)))
		if err := g.sessions.SetRole(profile.Role); err != nil {
			g.logger.Warn("persisting corrected role", zap.Error(err))
		}
	}

	if roleAllowed(section, profile.Role) {
		return Decision{Allow: true}
	}
	return Decision{Allow: false, RedirectTo: HomeSection(profile.Role)}
}

// HomeSection returns the dashboard a role belongs in.
func HomeSection(role model.Role) Section {
	if role == model.RolePro {
		return SectionPro
	}
	return SectionUser
}

// roleAllowed decides section entry per role. Staff accounts share the
// user area; the pro area takes the pro role or a full administrator,
// not an editor.
func roleAllowed(section Section, role model.Role) bool {
	switch section {
	case SectionUser:
		return role == model.RoleUser || role.IsStaff()
	case SectionPro:
		return role == model.RolePro || role == model.RoleAdministrator
	default:
		return true
	}
}
