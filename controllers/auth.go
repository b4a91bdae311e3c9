package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"
	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/authenticator"
	"github.com/insidehealthgt/hms/middleware"
	"github.com/insidehealthgt/hms/services"
)

const sessionState = "state"

// AuthController handles interactive login through the identity provider
type AuthController struct {
	provider authenticator.Provider
	users    services.UserService
	log      logrus.FieldLogger
}

// NewAuthController creates a new auth controller
func NewAuthController(provider authenticator.Provider, users services.UserService, log logrus.FieldLogger) *AuthController {
	return &AuthController{provider: provider, users: users, log: log}
}

// Login initiates the authentication process
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if ac.provider == nil {
		http.Error(w, "Login is not configured", http.StatusServiceUnavailable)
		return
	}

	// Generate random state
	state, err := generateRandomState()
	if err != nil {
		ac.log.WithError(err).Error("Failed to generate login state")
		http.Error(w, "Failed to start login", http.StatusInternalServerError)
		return
	}

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	sess.Set(sessionState, state)

	http.Redirect(w, r, ac.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the redirect back from the identity provider
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	if ac.provider == nil {
		http.Error(w, "Login is not configured", http.StatusServiceUnavailable)
		return
	}

	sess := session.GetSession(r)

	// Verify state
	storedState, ok := sess.Get(sessionState).(string)
	if !ok {
		http.Error(w, "State not found in session", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != storedState {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	sess.Delete(sessionState)

	token, err := ac.provider.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		ac.log.WithError(err).Warn("Failed to exchange authorization code")
		http.Error(w, "Failed to exchange authorization code", http.StatusUnauthorized)
		return
	}

	claims, err := ac.provider.GetClaims(r.Context(), token)
	if err != nil {
		ac.log.WithError(err).Warn("Failed to verify ID token")
		http.Error(w, "Failed to verify ID token", http.StatusUnauthorized)
		return
	}

	email := claims.Email()
	user, err := ac.users.ResolveLogin(r.Context(), email, displayName(claims))
	if err != nil {
		ac.log.WithError(err).WithField("email", email).Warn("Login rejected")
		http.Error(w, "Login rejected", http.StatusForbidden)
		return
	}

	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionUserNickname, user.DisplayName())
	sess.Set(middleware.SessionUserRoles, append([]string(nil), user.Roles...))
	ac.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User logged in")

	target := "/"
	if redirect, ok := sess.Get(middleware.SessionRedirect).(string); ok && strings.HasPrefix(redirect, "/") {
		target = redirect
		sess.Delete(middleware.SessionRedirect)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout clears the login from the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete(middleware.SessionUserID)
	sess.Delete(middleware.SessionUserNickname)
	sess.Delete(middleware.SessionUserRoles)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// displayName tries nickname, then name, then the email local part
func displayName(claims authenticator.Claims) string {
	for _, key := range []string{"nickname", "name"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	local, _, _ := strings.Cut(claims.Email(), "@")
	return local
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
