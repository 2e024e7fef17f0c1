package httpx

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/service"
)

// SSOHandlers serves the federation broker endpoints.
type SSOHandlers struct {
	SSO *service.SSOService
}

type mintRequest struct {
	ModuleID string `json:"module_id"`
}

// Mint issues a short-lived single-use token for the target module. The
// bearer session is re-validated inside the service, so the handler only
// extracts inputs.
func (h *SSOHandlers) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ModuleID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("module_id is required"),
		})
		return
	}

	result, err := h.SSO.Mint(r.Context(), service.MintRequest{
		SessionToken: BearerToken(r),
		ModuleID:     req.ModuleID,
		Client:       clientInfo(r),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

type validateTokenRequest struct {
	Token    string `json:"token"`
	ModuleID string `json:"module_id"`
}

// ValidateToken redeems a federation token on behalf of an external module.
// Every failure mode returns the same 401 body so the endpoint cannot be
// probed for why a particular token failed.
func (h *SSOHandlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req validateTokenRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.SSO.Redeem(r.Context(), service.RedeemRequest{
		Token:    req.Token,
		ModuleID: req.ModuleID,
		Client:   clientInfo(r),
	})
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "token_invalid",
			Err:     errors.New("invalid token"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"valid": true, "user": user})
}

// clientInfo extracts the caller's address and user agent for the audit trail.
func clientInfo(r *http.Request) model.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			ip = strings.TrimSpace(first)
		}
	}
	return model.ClientInfo{IP: ip, UserAgent: r.UserAgent()}
}
