package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/core/domain"
)

func runGuard(t *testing.T, manager *managerStub, requiredRole domain.Role, requireTenant bool, path, routeCode string, sess *domain.Session) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	c, rec := newContext(req)
	if routeCode != "" {
		c.SetParamNames("code")
		c.SetParamValues(routeCode)
	}
	if sess != nil {
		c.Set(ctxSession, sess)
	}

	reached := false
	handler := Guard(manager, requiredRole, requireTenant)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("guard: %v", err)
	}
	return rec, reached
}

func TestGuard_WaitsWhileInitialising(t *testing.T) {
	manager := &managerStub{ready: false}
	rec, reached := runGuard(t, manager, domain.RoleAdmin, false, "/superadmin", "", nil)
	if reached {
		t.Fatal("handler must not run before the session layer is ready")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGuard_RedirectsAnonymousToLoginWithFrom(t *testing.T) {
	manager := &managerStub{ready: true}
	rec, reached := runGuard(t, manager, domain.RoleAdmin, false, "/superadmin", "", nil)
	if reached {
		t.Fatal("handler must not run for anonymous callers")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?from=%2Fsuperadmin" {
		t.Fatalf("expected login redirect with from, got %q", loc)
	}
}

func TestGuard_InsufficientRoleRedirectsUnauthorized(t *testing.T) {
	manager := &managerStub{ready: true}
	sess := adminSession()
	sess.User.Role = domain.RoleEmployee

	rec, reached := runGuard(t, manager, domain.RoleAdmin, false, "/superadmin", "", sess)
	if reached {
		t.Fatal("handler must not run below the minimum role")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/unauthorized" {
		t.Fatalf("expected /unauthorized, got %q", loc)
	}
}

func TestGuard_AllowsMatchingTenantRoute(t *testing.T) {
	manager := &managerStub{ready: true}
	rec, reached := runGuard(t, manager, domain.RoleAdmin, true, "/factory/acm/admin", "acm", adminSession())
	if !reached {
		t.Fatalf("expected pass-through, got %d to %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGuard_ForeignFactoryCodeRedirectsUnauthorized(t *testing.T) {
	manager := &managerStub{ready: true}
	rec, reached := runGuard(t, manager, domain.RoleAdmin, true, "/factory/ibm/admin", "ibm", adminSession())
	if reached {
		t.Fatal("handler must not run for a foreign factory")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/unauthorized" {
		t.Fatalf("expected /unauthorized, got %q", loc)
	}
}

func TestGuard_SuperadminCrossesTenants(t *testing.T) {
	manager := &managerStub{ready: true}
	sess := &domain.Session{
		Token: "tok-9",
		User: domain.User{
			ID:    "u9",
			Email: "root@factoryhq.dev",
			Name:  "Root",
			Role:  domain.RoleSuperadmin,
		},
	}
	_, reached := runGuard(t, manager, domain.RoleAdmin, true, "/factory/acm/admin", "acm", sess)
	if !reached {
		t.Fatal("superadmin must reach tenant routes without a factory binding")
	}
}
