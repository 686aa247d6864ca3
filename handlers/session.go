// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/vocal-royale/auth"
	"github.com/danielhkuo/vocal-royale/cliparse"
	"github.com/danielhkuo/vocal-royale/middleware"
	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/store"
)

type SessionHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewSessionHandler(st *store.Store, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{st: st, cfg: cfg}
}

// Register handles POST /auth/register
// Creates an account and opens a session. Participant and juror signups are
// capped by the settings singleton.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 2 || len(req.Username) > 50 || len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleSpectator
	}
	if role != models.RoleParticipant && role != models.RoleJuror && role != models.RoleSpectator {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	settings, err := h.st.Settings.Get()
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	switch role {
	case models.RoleParticipant:
		n, err := h.st.Users.CountByRole(models.RoleParticipant)
		if err != nil {
			slog.Error("failed to count participants", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
			return
		}
		if n >= settings.MaxParticipantCount {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrParticipantsFull)
			return
		}
	case models.RoleJuror:
		n, err := h.st.Users.CountByRole(models.RoleJuror)
		if err != nil {
			slog.Error("failed to count jurors", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
			return
		}
		if n >= settings.MaxJurorCount {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrJurorsFull)
			return
		}
	}

	if _, err := h.st.Users.GetByUsername(req.Username); err == nil {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrUsernameTaken)
		return
	} else if err != store.ErrNotFound {
		slog.Error("failed to check username", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	user := &models.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		ArtistName:   req.ArtistName,
		PasswordHash: hash,
	}
	if err := h.st.Users.Create(user); err != nil {
		slog.Error("failed to create user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	token, err := h.openSession(user.ID)
	if err != nil {
		slog.Error("failed to open session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	slog.Info("user registered", "user", user.ID, "role", role)
	middleware.JSONResponse(w, http.StatusCreated, models.LoginResponse{Token: token, User: *user})
}

// Login handles POST /auth/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	user, err := h.st.Users.GetByUsername(req.Username)
	if err == store.ErrNotFound {
		slog.Warn("login failed", "ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSalt))
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrInvalidCredentials)
		return
	}
	if err != nil {
		slog.Error("failed to load user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		slog.Warn("login failed", "ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSalt))
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrInvalidCredentials)
		return
	}

	token, err := h.openSession(user.ID)
	if err != nil {
		slog.Error("failed to open session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	slog.Info("user logged in", "user", user.ID)
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// Logout handles POST /auth/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token != "" && token != header {
		if err := h.st.Sessions.Delete(token); err != nil {
			slog.Warn("failed to delete session", "error", err)
		}
	}
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Me handles GET /auth/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthenticated)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}

func (h *SessionHandler) openSession(userID string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}
	if err := h.st.Sessions.Create(token, userID); err != nil {
		return "", err
	}
	return token, nil
}
