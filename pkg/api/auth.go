package api

import (
	"errors"
	"net/http"

	"storefront/pkg/auth"
	"storefront/pkg/otel"
	"storefront/pkg/session"
)

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// loginHandler binds a username to a fresh session ID and moves the
// caller's cart and contact over to it.
// @Summary Login
// @Description Issues a new session cookie bound to the username. The cart is kept.
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200 {object} meResponse
// @Failure 400 {object} errorResponse
// @Router /login [post]
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	oldSID, newSID := session.IDFromContext(ctx), session.NewID()
	id, err := s.Auth.Login(ctx, newSID, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.Log.Error(ctx, "login", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	if err := session.Move(ctx, s.Sessions, oldSID, newSID); err != nil {
		s.Log.Error(ctx, "login: move session", "error", err)
		if lerr := s.Auth.Logout(ctx, newSID); lerr != nil {
			s.Log.Warn(ctx, "login: undo", "error", lerr)
		}
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	s.setSessionCookie(w, newSID)
	s.Log.Info(ctx, "login", "username", id.Username)
	writeJSON(w, http.StatusOK, meResponse{Authenticated: true, Username: id.Username})
}

// logoutHandler ends the login but keeps the session's cart.
// @Summary Logout
// @Success 204
// @Router /logout [post]
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	if err := s.Auth.Logout(ctx, session.IDFromContext(ctx)); err != nil {
		s.Log.Error(ctx, "logout", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// meHandler reports the caller's login state.
// @Summary Current user
// @Produce json
// @Success 200 {object} meResponse
// @Router /me [get]
func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	resp := meResponse{}
	if id := auth.FromContext(r.Context()); id != nil {
		resp = meResponse{Authenticated: true, Username: id.Username}
	}
	writeJSON(w, http.StatusOK, resp)
}
