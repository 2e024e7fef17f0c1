package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centralhub/hub-core/internal/auth"
	"github.com/centralhub/hub-core/internal/data/memory"
	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/service"
	"github.com/centralhub/hub-core/internal/testutil"
	"github.com/centralhub/hub-core/internal/token"
)

type routerHarness struct {
	users    *memory.UserStore
	modules  *memory.ModuleStore
	rbac     *service.RBACService
	sessions *service.SessionService
	handler  http.Handler
}

func newRouterHarness(t *testing.T) *routerHarness {
	t.Helper()
	clock := testutil.NewFixedClock(testutil.BaseTime)
	signer, err := token.NewHMACSigner(token.HMACSignerOptions{
		Secret: []byte("test-secret"),
		Clock:  clock,
	})
	require.NoError(t, err)

	users := memory.NewUserStore()
	modules := memory.NewModuleStore()
	hasher := auth.NewBcryptHasher(4)

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Users:    users,
		Sessions: memory.NewSessionStore(),
		Auth: service.SessionAuthDeps{
			Signer: signer,
			Hasher: hasher,
			Clock:  clock,
		},
	})
	rbac := service.NewRBACService(service.RBACServiceOptions{
		Roles: memory.NewRoleStore(),
		Clock: clock,
	})
	require.NoError(t, rbac.Bootstrap(context.Background()))
	authz := service.NewAuthorizationService(service.AuthorizationServiceOptions{
		Users: users,
		RBAC:  rbac,
	})
	userSvc := service.NewUserService(service.UserServiceOptions{
		Users:  users,
		Hasher: hasher,
		Clock:  clock,
	})
	moduleSvc := service.NewModuleService(service.ModuleServiceOptions{
		Modules: modules,
		Clock:   clock,
	})
	sso := service.NewSSOService(service.SSOServiceOptions{
		Stores: service.SSOStores{Tokens: memory.NewSSOTokenStore(), Modules: modules, Users: users},
		Auth:   service.SSOAuthDeps{Sessions: sessions, Authz: authz, Signer: signer},
		Config: service.SSOConfig{Clock: clock},
	})

	handler := NewRouter(RouterServices{
		Sessions: sessions,
		Users:    userSvc,
		RBAC:     rbac,
		Authz:    authz,
		Modules:  moduleSvc,
		SSO:      sso,
	})
	return &routerHarness{
		users:    users,
		modules:  modules,
		rbac:     rbac,
		sessions: sessions,
		handler:  handler,
	}
}

// login seeds a user and returns the user together with a session token.
func (h *routerHarness) login(t *testing.T, opts ...testutil.UserOption) (model.User, string) {
	t.Helper()
	ctx := context.Background()
	user := testutil.NewUser(opts...)
	_, err := h.users.Create(ctx, user)
	require.NoError(t, err)
	result, err := h.sessions.Login(ctx, user.Email, "hunter2!")
	require.NoError(t, err)
	return result.User, result.Token
}

func (h *routerHarness) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)

	rec := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LoginAndMe(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	user := testutil.NewUser(testutil.WithEmail("ops@example.com"))
	_, err := h.users.Create(context.Background(), user)
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ops@example.com",
		"password": "hunter2!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decodeBody(t, rec, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "ops@example.com", login.User.Email)

	rec = h.do(t, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.User
	decodeBody(t, rec, &me)
	assert.Equal(t, user.ID, me.ID)
}

func TestRouter_MeRequiresBearer(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)

	rec := h.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	h.login(t, testutil.WithEmail("ops@example.com"))

	rec := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ops@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ops@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_LogoutRevokesSession(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	_, bearer := h.login(t)

	rec := h.do(t, http.MethodPost, "/auth/logout", bearer, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodGet, "/auth/me", bearer, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout is idempotent.
	rec = h.do(t, http.MethodPost, "/auth/logout", bearer, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_AdminRoutesAreGated(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	_, viewerToken := h.login(t)
	_, adminToken := h.login(t, testutil.WithRole(model.RoleAdministrator))

	rec := h.do(t, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/admin/users", viewerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodGet, "/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RBACGrantOpensExactRoute(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	ctx := context.Background()
	operator, operatorToken := h.login(t)

	role, err := h.rbac.CreateRole(ctx, model.CreateRoleRequest{Name: "user-reader"})
	require.NoError(t, err)
	perm, err := h.rbac.EnsurePermission(ctx, model.CreatePermissionRequest{
		Resource: "system.users",
		Action:   model.ActionRead,
	})
	require.NoError(t, err)
	_, err = h.rbac.AssignPermissionToRole(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	_, err = h.rbac.AssignRoleToUser(ctx, operator.ID, role.ID, "admin-1")
	require.NoError(t, err)

	rec := h.do(t, http.MethodGet, "/admin/users", operatorToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The grant covers read only; write routes stay closed.
	rec = h.do(t, http.MethodPost, "/admin/users", operatorToken, model.CreateUserRequest{
		Email:    "new@example.com",
		Password: "hunter2!",
		FullName: "New User",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_UserLifecycle(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	_, adminToken := h.login(t, testutil.WithRole(model.RoleAdministrator))

	rec := h.do(t, http.MethodPost, "/admin/users", adminToken, model.CreateUserRequest{
		Email:    "new@example.com",
		Password: "secret-pw",
		FullName: "New User",
		Role:     model.RoleOperator,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.User
	decodeBody(t, rec, &created)

	// The new user can log in until deactivated.
	rec = h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "secret-pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/admin/users/"+created.ID+"/deactivate", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "secret-pw",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ModulesMine(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	ctx := context.Background()

	for _, name := range []string{"inventario", "reports"} {
		_, err := h.modules.CreateModule(ctx, testutil.NewModule(name, "http://"+name+".local"))
		require.NoError(t, err)
	}
	dormant := testutil.NewModule("dormant", "http://dormant.local")
	dormant.IsActive = false
	_, err := h.modules.CreateModule(ctx, dormant)
	require.NoError(t, err)

	_, viewerToken := h.login(t, testutil.WithModuleAccess("inventario"))
	_, adminToken := h.login(t, testutil.WithRole(model.RoleAdministrator))

	var body struct {
		Modules []model.Module `json:"modules"`
	}

	rec := h.do(t, http.MethodGet, "/modules/mine", viewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	require.Len(t, body.Modules, 1)
	assert.Equal(t, "inventario", body.Modules[0].Name)

	// Super admins see every active module but never inactive ones.
	rec = h.do(t, http.MethodGet, "/modules/mine", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	require.Len(t, body.Modules, 2)
}

func TestRouter_ModuleAdministration(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	_, adminToken := h.login(t, testutil.WithRole(model.RoleAdministrator))

	rec := h.do(t, http.MethodPost, "/admin/modules", adminToken, model.CreateModuleRequest{
		Name: "billing",
		URL:  "http://billing.local",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Module
	decodeBody(t, rec, &created)

	rec = h.do(t, http.MethodPut, "/admin/modules/"+created.ID+"/active", adminToken,
		map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Module
	decodeBody(t, rec, &updated)
	assert.False(t, updated.IsActive)

	rec = h.do(t, http.MethodGet, "/admin/modules/missing", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SSOFlow(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	ctx := context.Background()

	mod := testutil.NewModule("inventario", "http://inventario.local/sso")
	_, err := h.modules.CreateModule(ctx, mod)
	require.NoError(t, err)
	user, bearer := h.login(t, testutil.WithModuleAccess("inventario"))

	rec := h.do(t, http.MethodPost, "/sso/mint", bearer, map[string]string{"module_id": mod.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var minted struct {
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}
	decodeBody(t, rec, &minted)
	require.NotEmpty(t, minted.Token)
	assert.Contains(t, minted.RedirectURL, "sso_token=")

	rec = h.do(t, http.MethodPost, "/sso/validate-token", "", map[string]string{
		"token":     minted.Token,
		"module_id": mod.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var redeemed struct {
		Valid bool                    `json:"valid"`
		User  model.SSOUserProjection `json:"user"`
	}
	decodeBody(t, rec, &redeemed)
	assert.True(t, redeemed.Valid)
	assert.Equal(t, user.ID, redeemed.User.ID)

	// The token burns on first redemption.
	rec = h.do(t, http.MethodPost, "/sso/validate-token", "", map[string]string{
		"token":     minted.Token,
		"module_id": mod.ID,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SSOValidateFailuresAreUniform(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	ctx := context.Background()

	mod := testutil.NewModule("inventario", "http://inventario.local/sso")
	other := testutil.NewModule("reports", "http://reports.local/sso")
	_, err := h.modules.CreateModule(ctx, mod)
	require.NoError(t, err)
	_, err = h.modules.CreateModule(ctx, other)
	require.NoError(t, err)
	_, bearer := h.login(t, testutil.WithModuleAccess("inventario"))

	rec := h.do(t, http.MethodPost, "/sso/mint", bearer, map[string]string{"module_id": mod.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var minted struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &minted)

	cases := map[string]map[string]string{
		"garbage token":  {"token": "garbage", "module_id": mod.ID},
		"wrong module":   {"token": minted.Token, "module_id": other.ID},
		"missing token":  {"module_id": mod.ID},
		"unknown module": {"token": minted.Token, "module_id": "missing"},
	}
	var bodies []string
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/sso/validate-token", "", payload)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			bodies = append(bodies, rec.Body.String())
		})
	}
	// Every failure mode produces the identical response body.
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}

func TestRouter_SSOMintRequiresSessionAndGrant(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	ctx := context.Background()

	mod := testutil.NewModule("inventario", "http://inventario.local/sso")
	_, err := h.modules.CreateModule(ctx, mod)
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/sso/mint", "", map[string]string{"module_id": mod.ID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid session without a module grant is forbidden, not unauthorized.
	_, bearer := h.login(t)
	rec = h.do(t, http.MethodPost, "/sso/mint", bearer, map[string]string{"module_id": mod.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodPost, "/sso/mint", bearer, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RoleAdministration(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	_, adminToken := h.login(t, testutil.WithRole(model.RoleAdministrator))

	rec := h.do(t, http.MethodPost, "/admin/roles", adminToken, model.CreateRoleRequest{Name: "auditor"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var role model.Role
	decodeBody(t, rec, &role)

	rec = h.do(t, http.MethodPost, "/admin/permissions", adminToken, model.CreatePermissionRequest{
		Resource: "inventario",
		Action:   model.ActionRead,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var perm model.Permission
	decodeBody(t, rec, &perm)

	rec = h.do(t, http.MethodPost, "/admin/roles/"+role.ID+"/permissions", adminToken,
		map[string]string{"permission_id": perm.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/admin/roles/"+role.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Role        model.Role         `json:"role"`
		Permissions []model.Permission `json:"permissions"`
	}
	decodeBody(t, rec, &detail)
	assert.Equal(t, "auditor", detail.Role.Name)
	require.Len(t, detail.Permissions, 1)

	rec = h.do(t, http.MethodDelete, "/admin/roles/"+role.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted struct {
		Deleted bool `json:"deleted"`
	}
	decodeBody(t, rec, &deleted)
	assert.True(t, deleted.Deleted)
}

func TestRouter_UserRoleAssignmentRecordsGrantor(t *testing.T) {
	t.Parallel()
	h := newRouterHarness(t)
	ctx := context.Background()
	admin, adminToken := h.login(t, testutil.WithRole(model.RoleAdministrator))
	target, _ := h.login(t)

	role, err := h.rbac.CreateRole(ctx, model.CreateRoleRequest{Name: "auditor"})
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/admin/users/"+target.ID+"/roles", adminToken,
		map[string]string{"role_id": role.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var edge model.UserRole
	decodeBody(t, rec, &edge)
	assert.Equal(t, admin.ID, edge.AssignedBy)

	rec = h.do(t, http.MethodGet, "/admin/users/"+target.ID+"/roles", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Roles []model.Role `json:"roles"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Roles, 1)
	assert.Equal(t, "auditor", body.Roles[0].Name)
}
