package access

import (
	"testing"

	"github.com/factoryhq/console/internal/core/domain"
)

func userWith(role domain.Role) *domain.User {
	return &domain.User{ID: "u1", Email: "u@acme.test", Name: "U", Role: role}
}

func TestDecide_WaitWhileInitialising(t *testing.T) {
	d := Decide(Input{Ready: false, RequestedPath: "/superadmin"})
	if d.Kind != Wait {
		t.Fatalf("expected wait, got %s", d.Kind)
	}
}

func TestDecide_SignInCarriesRequestedPath(t *testing.T) {
	d := Decide(Input{Ready: true, RequestedPath: "/factory/sfl/admin"})
	if d.Kind != SignIn {
		t.Fatalf("expected sign_in, got %s", d.Kind)
	}
	if d.From != "/factory/sfl/admin" {
		t.Fatalf("expected From to carry the requested path, got %q", d.From)
	}
}

// Every role pair: access is granted exactly when the principal's rank is at
// least the route's minimum.
func TestDecide_MinimumRoleIsAFloor(t *testing.T) {
	roles := []domain.Role{domain.RoleEmployee, domain.RoleSupervisor, domain.RoleAdmin, domain.RoleSuperadmin}
	for _, have := range roles {
		for _, need := range roles {
			d := Decide(Input{Ready: true, User: userWith(have), RequiredRole: need})
			wantAllow := have.Rank() >= need.Rank()
			if wantAllow && d.Kind != Allow {
				t.Fatalf("role %s on route requiring %s: expected allow, got %s", have, need, d.Kind)
			}
			if !wantAllow && d.Kind != Unauthorized {
				t.Fatalf("role %s on route requiring %s: expected unauthorized, got %s", have, need, d.Kind)
			}
		}
	}
}

func TestDecide_NoRequiredRoleAdmitsAnyPrincipal(t *testing.T) {
	d := Decide(Input{Ready: true, User: userWith(domain.RoleEmployee)})
	if d.Kind != Allow {
		t.Fatalf("expected allow, got %s", d.Kind)
	}
}

func TestDecide_TenantRouteNeedsFactory(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleEmployee, domain.RoleSupervisor, domain.RoleAdmin} {
		d := Decide(Input{
			Ready:         true,
			User:          userWith(role),
			RequiredRole:  domain.RoleEmployee,
			RequireTenant: true,
		})
		if d.Kind != Unauthorized {
			t.Fatalf("%s with no factory on tenant route: expected unauthorized, got %s", role, d.Kind)
		}
	}
}

func TestDecide_SuperadminExemptFromTenantPresence(t *testing.T) {
	d := Decide(Input{
		Ready:         true,
		User:          userWith(domain.RoleSuperadmin),
		RequiredRole:  domain.RoleAdmin,
		RequireTenant: true,
		RouteCode:     "sfl",
	})
	if d.Kind != Allow {
		t.Fatalf("superadmin on tenant route without a factory: expected allow, got %s", d.Kind)
	}
}

func TestDecide_RouteCodeMustMatchSessionFactory(t *testing.T) {
	factory := &domain.Factory{ID: "f1", Name: "Sunflower", Code: "SFL"}

	d := Decide(Input{
		Ready:         true,
		User:          userWith(domain.RoleAdmin),
		Factory:       factory,
		RequiredRole:  domain.RoleAdmin,
		RequireTenant: true,
		RouteCode:     "sfl",
	})
	if d.Kind != Allow {
		t.Fatalf("matching route code: expected allow, got %s", d.Kind)
	}

	d = Decide(Input{
		Ready:         true,
		User:          userWith(domain.RoleAdmin),
		Factory:       factory,
		RequiredRole:  domain.RoleAdmin,
		RequireTenant: true,
		RouteCode:     "ibm",
	})
	if d.Kind != Unauthorized {
		t.Fatalf("foreign route code: expected unauthorized, got %s", d.Kind)
	}
}

func TestDecide_RankCheckedBeforeTenant(t *testing.T) {
	// An employee navigating to an admin route fails on role even though the
	// factory matches.
	d := Decide(Input{
		Ready:         true,
		User:          userWith(domain.RoleEmployee),
		Factory:       &domain.Factory{ID: "f1", Name: "Sunflower", Code: "SFL"},
		RequiredRole:  domain.RoleAdmin,
		RequireTenant: true,
		RouteCode:     "sfl",
	})
	if d.Kind != Unauthorized {
		t.Fatalf("expected unauthorized, got %s", d.Kind)
	}
}
