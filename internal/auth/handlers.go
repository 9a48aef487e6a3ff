package auth

import (
	"log/slog"
	"net/http"

	"starwars-api/internal/shared/cookies"
	"starwars-api/internal/shared/crud"
	"starwars-api/internal/shared/response"
)

type Handler struct {
	service *Service
	cookies cookies.Policy
}

func NewHandler(service *Service, policy cookies.Policy) *Handler {
	return &Handler{
		service: service,
		cookies: policy,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "auth", "operation", "login", "remote_addr", r.RemoteAddr)

	var req LoginRequest
	if err := crud.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	h.cookies.SetAuthCookie(w, result.Token)
	response.Success(w, http.StatusOK, result)
}

// Logout expects the auth middleware to have stored the caller's claims.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "auth", "operation", "logout")

	if err := h.service.Logout(r.Context(), ClaimsFromContext(r.Context())); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	h.cookies.ClearAuthCookie(w)
	response.NoContent(w)
}
