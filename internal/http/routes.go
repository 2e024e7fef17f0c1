package httpx

import (
	"net/http"

	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions *service.SessionService
	Users    *service.UserService
	RBAC     *service.RBACService
	Authz    *service.AuthorizationService
	Modules  *service.ModuleService
	SSO      *service.SSOService
}

// NewRouter creates and configures the HTTP router. Administrative routes
// are gated twice: session validation first, then an exact RBAC permission.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Sessions: services.Sessions}
	ssoHandlers := &SSOHandlers{SSO: services.SSO}
	userHandlers := &UserHandlers{Users: services.Users}
	rbacHandlers := &RBACHandlers{RBAC: services.RBAC}
	moduleHandlers := &ModuleHandlers{Modules: services.Modules, Authz: services.Authz}

	auth := RequireAuth(services.Sessions)
	perm := func(resource string, action model.Action) func(http.Handler) http.Handler {
		return RequirePermission(services.Authz, resource, action)
	}
	gated := func(resource string, action model.Action, h http.HandlerFunc) http.Handler {
		return auth(perm(resource, action)(h))
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Authentication
	mux.Handle("POST /auth/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /auth/me", auth(http.HandlerFunc(authHandlers.Me)))

	// SSO federation. Mint needs a valid session; the token validation
	// endpoint is called by external modules and carries its own credential.
	mux.Handle("POST /sso/mint", http.HandlerFunc(ssoHandlers.Mint))
	mux.Handle("POST /sso/validate-token", http.HandlerFunc(ssoHandlers.ValidateToken))

	// Module directory
	mux.Handle("GET /modules/mine", auth(http.HandlerFunc(moduleHandlers.Mine)))
	mux.Handle("GET /admin/modules", gated("system.modules", model.ActionRead, moduleHandlers.List))
	mux.Handle("POST /admin/modules", gated("system.modules", model.ActionWrite, moduleHandlers.Create))
	mux.Handle("GET /admin/modules/{id}", gated("system.modules", model.ActionRead, moduleHandlers.Get))
	mux.Handle("PUT /admin/modules/{id}/active", gated("system.modules", model.ActionWrite, moduleHandlers.SetActive))

	// User administration
	mux.Handle("GET /admin/users", gated("system.users", model.ActionRead, userHandlers.List))
	mux.Handle("POST /admin/users", gated("system.users", model.ActionWrite, userHandlers.Create))
	mux.Handle("GET /admin/users/{id}", gated("system.users", model.ActionRead, userHandlers.Get))
	mux.Handle("PATCH /admin/users/{id}", gated("system.users", model.ActionWrite, userHandlers.Update))
	mux.Handle("POST /admin/users/{id}/deactivate", gated("system.users", model.ActionWrite, userHandlers.Deactivate))

	// RBAC administration
	mux.Handle("GET /admin/roles", gated("system.roles", model.ActionRead, rbacHandlers.ListRoles))
	mux.Handle("POST /admin/roles", gated("system.roles", model.ActionWrite, rbacHandlers.CreateRole))
	mux.Handle("GET /admin/roles/{id}", gated("system.roles", model.ActionRead, rbacHandlers.GetRole))
	mux.Handle("DELETE /admin/roles/{id}", gated("system.roles", model.ActionDelete, rbacHandlers.DeleteRole))
	mux.Handle("POST /admin/roles/{id}/permissions", gated("system.roles", model.ActionWrite, rbacHandlers.AssignPermission))
	mux.Handle("DELETE /admin/roles/{id}/permissions/{permissionID}",
		gated("system.roles", model.ActionWrite, rbacHandlers.RemovePermission))
	mux.Handle("GET /admin/permissions", gated("system.roles", model.ActionRead, rbacHandlers.ListPermissions))
	mux.Handle("POST /admin/permissions", gated("system.roles", model.ActionWrite, rbacHandlers.CreatePermission))
	mux.Handle("GET /admin/users/{id}/roles", gated("system.roles", model.ActionRead, rbacHandlers.UserRoles))
	mux.Handle("POST /admin/users/{id}/roles", gated("system.roles", model.ActionWrite, rbacHandlers.AssignRole))
	mux.Handle("DELETE /admin/users/{id}/roles/{roleID}",
		gated("system.roles", model.ActionWrite, rbacHandlers.RemoveRole))
	mux.Handle("GET /admin/users/{id}/permissions",
		gated("system.roles", model.ActionRead, rbacHandlers.UserPermissions))

	return mux
}
