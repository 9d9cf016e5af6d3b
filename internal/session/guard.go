package session

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// Decision is the outcome of one guard pass: either the navigation goes
// through, or it is rewritten to RedirectTo before any page code runs.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target string) Decision {
	return Decision{RedirectTo: target}
}

// sharedPaths are contextless pages that exist under both role subtrees.
var sharedPaths = []string{"/about", "/achievements", "/blog"}

// Guard evaluates the route policy ahead of page rendering, using only the
// replicated session. It runs one synchronous pass per navigation; a
// superseded navigation is simply abandoned by the caller.
type Guard struct {
	sessions interface {
		Load() (Session, bool)
	}
}

// NewGuard reads sessions from the store the pre-render interceptor can see.
func NewGuard(store Store) *Guard {
	return &Guard{sessions: store}
}

// DashboardPath is the canonical landing page for a role. Divergent session
// replicas are resolved by re-deriving this from the role, never by
// preferring one store's stale navigation state.
func DashboardPath(role string) string {
	return "/" + role + "/dashboard"
}

// Evaluate applies the policy to one navigation attempt.
func (g *Guard) Evaluate(path string) Decision {
	sess, authed := g.sessions.Load()

	protected := strings.HasPrefix(path, "/doctor/") || strings.HasPrefix(path, "/patient/")
	authPage := strings.HasPrefix(path, "/auth/")

	if !authed {
		if protected {
			// Keep the original destination so login can come back to it.
			return redirect("/auth/login?redirect=" + url.QueryEscape(path))
		}
		return allow()
	}

	if authPage {
		return redirect(DashboardPath(sess.Role))
	}

	if protected && !strings.HasPrefix(path, "/"+sess.Role+"/") {
		// The other role's subtree: bounce back to the caller's own dashboard.
		return redirect(DashboardPath(sess.Role))
	}

	if lo.Contains(sharedPaths, path) {
		return redirect("/" + sess.Role + path)
	}

	return allow()
}
