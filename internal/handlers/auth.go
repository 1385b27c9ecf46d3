// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"glinda/internal/middleware"
	"glinda/internal/session"
	"glinda/internal/store"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "Glinda Admin"

// Auth handles admin login, logout, and the mandatory TOTP second factor.
// The flow is: password login creates a session with TwoFADone=false, then
// the client either enrolls (setup + verify) or just verifies, and only a
// verified session passes the Require2FA middleware.
type Auth struct {
	users    *store.UserStore
	sessions *session.Store
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, sessions *session.Store) *Auth {
	return &Auth{users: users, sessions: sessions}
}

// Login verifies email and password and opens a session. The response
// tells the SPA which 2FA step comes next: "setup" for first login,
// "verify" otherwise.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.FindByEmail(payload.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || !h.users.CheckPassword(user, payload.Password) {
		// Same response for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	data := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   false,
	}
	if _, err := h.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	next := "verify"
	if user.Needs2FASetup() {
		next = "setup"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"two_fa":       next,
		"display_name": user.DisplayName,
	})
}

// Logout destroys the session.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current session identity, including whether 2FA has been
// completed, so the SPA can restore its auth state on reload.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"email":        sess.Email,
		"display_name": sess.DisplayName,
		"role":         sess.Role,
		"two_fa_done":  sess.TwoFADone,
	})
}

// TwoFASetup generates a fresh TOTP secret for the logged-in user and
// returns it with a QR code for authenticator enrollment. The secret is
// stored but 2FA stays disabled until the first successful verify.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "2FA setup failed")
		return
	}

	if err := h.users.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("totp secret save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "2FA setup failed")
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("totp qr encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "2FA setup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_png":      base64.StdEncoding.EncodeToString(png),
	})
}

// twoFAVerifyPayload is the request body for TOTP verification.
type twoFAVerifyPayload struct {
	Code string `json:"code"`
}

// TwoFAVerify checks a TOTP code against the user's stored secret. On the
// first successful verification 2FA is flipped on for the account; every
// success marks the session as fully authenticated.
func (h *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var payload twoFAVerifyPayload
	if err := decodeJSON(r, &payload); err != nil || payload.Code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("2fa user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "2FA not set up")
		return
	}

	if !totp.Validate(payload.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := h.users.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "verification failed")
			return
		}
	}

	sess.TwoFADone = true
	if err := h.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
