// Package access implements the route guard: a pure decision function over
// the current principal, the current factory, and a route's requirements.
// It carries no state and performs no I/O, so it is re-evaluated on every
// navigation rather than cached.
package access

import "github.com/factoryhq/console/internal/core/domain"

// Kind enumerates the possible guard outcomes.
type Kind string

const (
	// Wait means the session layer has not finished initialising; render a
	// neutral waiting state and make no redirect decision yet.
	Wait Kind = "wait"
	// Allow renders the protected content.
	Allow Kind = "allow"
	// SignIn redirects to the sign-in view, carrying the originally
	// requested path so the caller can return there after authentication.
	SignIn Kind = "sign_in"
	// Unauthorized redirects to the unauthorized view.
	Unauthorized Kind = "unauthorized"
)

// Input is everything a guard decision depends on.
type Input struct {
	// Ready is false while the session layer is still initialising.
	Ready bool
	// User and Factory come from the resolved session; both may be nil.
	User    *domain.User
	Factory *domain.Factory
	// RequiredRole, when non-empty, is the minimum role for the route.
	RequiredRole domain.Role
	// RequireTenant marks factory-scoped routes.
	RequireTenant bool
	// RouteCode is the factory code segment of the requested path, when the
	// route is parameterised by one.
	RouteCode string
	// RequestedPath is carried into a SignIn decision.
	RequestedPath string
}

// Decision is the guard verdict. From is set only for SignIn.
type Decision struct {
	Kind Kind
	From string
}

// Decide evaluates the guard rules in order:
//
//  1. Session layer still loading: wait.
//  2. No principal: sign in, remembering where the caller wanted to go.
//  3. Principal rank below the route's minimum role: unauthorized. The check
//     is a floor (>=), so a superadmin passes every role-gated route.
//  4. Factory-scoped route with no factory on the session: unauthorized,
//     unless the principal is a superadmin, who is exempt from tenant
//     presence, and from the code match below, entirely.
//  5. Factory-scoped route whose code segment names a different factory than
//     the session's: unauthorized.
//  6. Otherwise: allow.
func Decide(in Input) Decision {
	if !in.Ready {
		return Decision{Kind: Wait}
	}
	if in.User == nil {
		return Decision{Kind: SignIn, From: in.RequestedPath}
	}

	if in.RequiredRole != "" && !in.User.Role.AtLeast(in.RequiredRole) {
		return Decision{Kind: Unauthorized}
	}

	if in.RequireTenant && in.User.Role != domain.RoleSuperadmin {
		if in.Factory == nil {
			return Decision{Kind: Unauthorized}
		}
		if in.RouteCode != "" && !in.Factory.CodeMatches(in.RouteCode) {
			return Decision{Kind: Unauthorized}
		}
	}

	return Decision{Kind: Allow}
}
