package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/service"
	"github.com/factoryhq/console/internal/infrastructure/backend"
	"github.com/factoryhq/console/internal/infrastructure/store/memory"
	"github.com/factoryhq/console/internal/notify"
	"github.com/factoryhq/console/internal/stubapi"
)

// TestConsole drives the whole console against the in-memory platform stub:
// real router, real session manager, real gateway client. The router is
// built once because its prometheus middleware registers collectors
// globally.
func TestConsole(t *testing.T) {
	platform := stubapi.New("stub-secret")
	_, err := platform.SeedSuperadmin("root@factoryhq.dev", "superadmin", "Platform Operator")
	require.NoError(t, err)
	upstreamSrv := httptest.NewServer(platform.Handler())
	defer upstreamSrv.Close()

	store := memory.NewStore()
	upstream := backend.NewClient(upstreamSrv.URL, zerolog.Nop())
	manager := service.NewSessionManager(store, upstream, notify.Direct{}, zerolog.Nop())
	manager.Initialize(context.Background())

	e := NewRouter(RouterConfig{CookieSecret: "test-cookie-secret", SessionTTL: time.Hour}, manager, upstream, store, zerolog.Nop())
	console := httptest.NewServer(e)
	defer console.Close()

	// newClient returns a cookie-holding client that does not follow
	// redirects, so guard verdicts stay observable.
	newClient := func() *http.Client {
		jar, err := cookiejar.New(nil)
		require.NoError(t, err)
		return &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	get := func(c *http.Client, path string) *http.Response {
		resp, err := c.Get(console.URL + path)
		require.NoError(t, err)
		return resp
	}

	postJSON := func(c *http.Client, path string, body any) *http.Response {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		resp, err := c.Post(console.URL+path, "application/json", bytes.NewReader(raw))
		require.NoError(t, err)
		return resp
	}

	decode := func(resp *http.Response, out any) {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	login := func(c *http.Client, email, password string) *http.Response {
		return postJSON(c, "/login", map[string]string{"email": email, "password": password})
	}

	t.Run("anonymous dashboard redirects to login with from", func(t *testing.T) {
		resp := get(newClient(), "/dashboard")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, "/dashboard", loc.Query().Get("from"))
	})

	t.Run("rejected login surfaces the platform message", func(t *testing.T) {
		resp := login(newClient(), "root@factoryhq.dev", "wrong")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body map[string]string
		decode(resp, &body)
		assert.Equal(t, "Invalid email or password", body["error"])
	})

	root := newClient()

	t.Run("superadmin signs in and lands on the overview", func(t *testing.T) {
		resp := login(root, "root@factoryhq.dev", "superadmin")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			User    domain.User     `json:"user"`
			Factory *domain.Factory `json:"factory"`
		}
		decode(resp, &body)
		assert.Equal(t, domain.RoleSuperadmin, body.User.Role)
		assert.Nil(t, body.Factory)

		resp = get(root, "/session")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = get(root, "/dashboard")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/superadmin", resp.Header.Get("Location"))
	})

	t.Run("superadmin creates a factory and sees it in the overview", func(t *testing.T) {
		resp := postJSON(root, "/superadmin/factories", map[string]string{
			"name":           "Acme Manufacturing",
			"code":           "acm",
			"admin_email":    "ada@acme.test",
			"admin_password": "pw123456",
			"admin_name":     "Ada",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var factory domain.Factory
		decode(resp, &factory)
		assert.Equal(t, "ACM", factory.Code)

		resp = get(root, "/superadmin")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var overview struct {
			Total    int `json:"total"`
			Active   int `json:"active"`
			Inactive int `json:"inactive"`
		}
		decode(resp, &overview)
		assert.Equal(t, 1, overview.Total)
		assert.Equal(t, 1, overview.Active)
	})

	admin := newClient()

	t.Run("factory admin lands on their factory view", func(t *testing.T) {
		resp := login(admin, "ada@acme.test", "pw123456")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = get(admin, "/dashboard")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/factory/acm/admin", resp.Header.Get("Location"))

		dash := get(admin, "/factory/acm/admin")
		assert.Equal(t, http.StatusOK, dash.StatusCode)
		var body struct {
			RoleCounts map[string]int `json:"role_counts"`
			Users      []domain.User  `json:"users"`
		}
		decode(dash, &body)
		assert.Equal(t, 1, body.RoleCounts["admin"])
		assert.Len(t, body.Users, 1)
	})

	t.Run("factory admin cannot view a foreign factory", func(t *testing.T) {
		resp := get(admin, "/factory/ibm/admin")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))
	})

	t.Run("admin role is below the superadmin overview", func(t *testing.T) {
		resp := get(admin, "/superadmin")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))
	})

	var employee domain.User

	t.Run("admin manages factory users", func(t *testing.T) {
		resp := postJSON(admin, "/factory/acm/users", map[string]string{
			"email":    "eve@acme.test",
			"password": "pw123456",
			"name":     "Eve",
			"role":     "employee",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		decode(resp, &employee)
		assert.Equal(t, "ACMEMP001", employee.EmployeeID)

		resp = get(admin, "/factory/acm/users")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var users []domain.User
		decode(resp, &users)
		assert.Len(t, users, 2)

		raw, err := json.Marshal(map[string]string{"name": "Evelyn"})
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPut, console.URL+"/users/"+employee.ID, bytes.NewReader(raw))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		putResp, err := admin.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, putResp.StatusCode)
		var updated domain.User
		decode(putResp, &updated)
		assert.Equal(t, "Evelyn", updated.Name)
	})

	t.Run("short passwords are rejected before reaching the platform", func(t *testing.T) {
		resp := postJSON(admin, "/factory/acm/users", map[string]string{
			"email":    "zoe@acme.test",
			"password": "short",
			"name":     "Zoe",
			"role":     "employee",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("employee can see their own view but not user management", func(t *testing.T) {
		worker := newClient()
		resp := login(worker, "eve@acme.test", "pw123456")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = get(worker, "/factory/acm/employee")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			User domain.User `json:"user"`
		}
		decode(resp, &body)
		assert.Equal(t, "eve@acme.test", body.User.Email)

		resp = get(worker, "/factory/acm/users")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))
	})

	t.Run("logout clears the session", func(t *testing.T) {
		resp := postJSON(admin, "/logout", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decode(resp, &body)
		assert.Equal(t, "logged out", body["status"])

		resp = get(admin, "/session")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("probes answer", func(t *testing.T) {
		resp := get(newClient(), "/health")
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = get(newClient(), "/health/ready")
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
