// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"parokicms/internal/auth"
	"parokicms/internal/middleware"
	"parokicms/internal/session"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	service  *auth.Service
	limiter  *auth.LoginLimiter
	sessions *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(service *auth.Service, limiter *auth.LoginLimiter, sessions *session.Store) *Auth {
	return &Auth{
		service:  service,
		limiter:  limiter,
		sessions: sessions,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	RequiresTOTP bool   `json:"requiresTotp,omitempty"`
}

// Login checks credentials and opens a session. Accounts with a TOTP
// secret stay half-open until the code is verified.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	key := auth.Key(req.Username, middleware.ClientIP(r))
	if a.limiter != nil && a.limiter.Blocked(r.Context(), key) {
		writeJSON(w, http.StatusTooManyRequests, envelope{
			Success: false,
			Message: "Terlalu banyak percobaan login. Coba lagi nanti.",
		})
		return
	}

	admin, ok := a.service.Authenticate(req.Username, req.Password)
	if !ok {
		if a.limiter != nil {
			a.limiter.RecordFailure(r.Context(), key)
		}
		writeJSON(w, http.StatusUnauthorized, envelope{
			Success: false,
			Message: "Nama pengguna atau kata sandi salah.",
		})
		return
	}

	if a.limiter != nil {
		a.limiter.Reset(r.Context(), key)
	}

	requiresTOTP := auth.RequiresTOTP(admin)
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		Username:  admin.Username,
		Role:      "admin",
		TwoFADone: !requiresTOTP,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("admin login", "username", admin.Username, "requires_totp", requiresTOTP)
	writeJSON(w, http.StatusOK, loginResponse{Success: true, RequiresTOTP: requiresTOTP})
}

type totpRequest struct {
	Code string `json:"code"`
}

// TOTPVerify completes the second factor for a half-open session.
func (a *Auth) TOTPVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Sesi tidak ditemukan."})
		return
	}

	var req totpRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	admin, ok := a.service.Lookup(sess.Username)
	if !ok || !auth.RequiresTOTP(admin) {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Akun ini tidak memakai kode verifikasi."})
		return
	}

	key := auth.Key(sess.Username, middleware.ClientIP(r))
	if a.limiter != nil && a.limiter.Blocked(r.Context(), key) {
		writeJSON(w, http.StatusTooManyRequests, envelope{
			Success: false,
			Message: "Terlalu banyak percobaan. Coba lagi nanti.",
		})
		return
	}

	if !auth.VerifyTOTP(admin, req.Code) {
		if a.limiter != nil {
			a.limiter.RecordFailure(r.Context(), key)
		}
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Kode verifikasi salah."})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		respondError(w, r, err)
		return
	}
	if a.limiter != nil {
		a.limiter.Reset(r.Context(), key)
	}

	respondOK(w, "Verifikasi berhasil.", nil)
}

// TOTPSetup returns the provisioning QR code and secret for the session
// account so an authenticator app can be enrolled.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Sesi tidak ditemukan."})
		return
	}

	admin, ok := a.service.Lookup(sess.Username)
	if !ok {
		respondNotFound(w)
		return
	}
	if !auth.RequiresTOTP(admin) {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Akun ini tidak memakai kode verifikasi."})
		return
	}

	qr, err := auth.ProvisioningQR(admin)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, map[string]string{
		"qr":     qr,
		"secret": admin.TOTPSecret,
		"url":    auth.ProvisioningURL(admin),
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Berhasil keluar.", nil)
}

// Me reports the session identity, for the admin frontend to render
// its header.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Belum masuk."})
		return
	}
	respondData(w, map[string]any{
		"username":  sess.Username,
		"role":      sess.Role,
		"twoFaDone": sess.TwoFADone,
	})
}
