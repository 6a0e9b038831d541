package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ldostudio/backend/internal/model"
	"github.com/ldostudio/backend/internal/service"
	"github.com/ldostudio/backend/pkg/auth"
)

const oauthStateCookieName = "oauth_state"
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// AuthHandler handles operator login (password and Google), logout and
// session cookie issuance.
type AuthHandler struct {
	authService   service.AuthService
	googleConfig  *oauth2.Config
	sessionSecret []byte
	sessionTTL    time.Duration
	frontendURL   string
}

// AuthConfig configures AuthHandler.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectPath string
	SessionSecret      string
	SessionTTL         time.Duration
	FrontendURL        string
}

// NewAuthHandler creates an AuthHandler with the given service and config.
func NewAuthHandler(authService service.AuthService, cfg AuthConfig) *AuthHandler {
	redirectBase := os.Getenv("BACKEND_URL")
	if redirectBase == "" {
		redirectBase = "http://localhost:8080"
	}

	googleConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  redirectBase + cfg.GoogleRedirectPath,
		Scopes:       []string{"profile", "email"},
		Endpoint:     google.Endpoint,
	}

	return &AuthHandler{
		authService:   authService,
		googleConfig:  googleConfig,
		sessionSecret: auth.SessionSecretBytes(cfg.SessionSecret),
		sessionTTL:    cfg.SessionTTL,
		frontendURL:   cfg.FrontendURL,
	}
}

// loginRequest is the expected JSON body for POST /api/auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login (username/password).
// Any failure gets the same generic error so the response does not reveal
// which credential was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	op, err := h.authService.LoginWithPassword(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "login_failed")
		return
	}

	h.setSessionCookie(w, op)
	writeJSON(w, http.StatusOK, op)
}

// Logout handles POST /api/auth/logout by clearing the session cookie.
// Tokens are stateless, so "invalidation" is simply forgetting the cookie;
// the absolute expiry bounds how long a leaked token stays usable.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// googleUserInfo is the response of Google's userinfo API.
type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleLoginURL handles GET /api/auth/google/login: returns the consent URL
// and plants the CSRF state cookie.
func (h *AuthHandler) GoogleLoginURL(w http.ResponseWriter, r *http.Request) {
	state := generateOAuthState()
	setStateCookie(w, state)
	url := h.googleConfig.AuthCodeURL(state)
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// GoogleCallback handles GET /api/auth/google/callback: verifies state,
// exchanges the code, resolves the identity to an operator and opens a session.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !verifyOAuthState(r) {
		clearStateCookie(w)
		http.Redirect(w, r, h.frontendURL+"/login?error=invalid_state", http.StatusFound)
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, h.frontendURL+"/login?error=missing_code", http.StatusFound)
		return
	}

	token, err := h.googleConfig.Exchange(r.Context(), code)
	if err != nil {
		http.Redirect(w, r, h.frontendURL+"/login?error=exchange_failed", http.StatusFound)
		return
	}

	resp, err := h.googleConfig.Client(r.Context(), token).Get(googleUserInfoURL)
	if err != nil {
		http.Redirect(w, r, h.frontendURL+"/login?error=userinfo_failed", http.StatusFound)
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Sub == "" {
		http.Redirect(w, r, h.frontendURL+"/login?error=userinfo_failed", http.StatusFound)
		return
	}

	op, err := h.authService.GetOrCreateFromGoogle(r.Context(), &service.GoogleUserInfo{
		Sub:   info.Sub,
		Email: info.Email,
		Name:  info.Name,
	})
	if err != nil {
		http.Redirect(w, r, h.frontendURL+"/login?error=auth_failed", http.StatusFound)
		return
	}

	h.setSessionCookie(w, op)
	http.Redirect(w, r, h.frontendURL+"/admin", http.StatusFound)
}

// setSessionCookie issues the signed session cookie for the operator.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, op *model.Operator) {
	token := auth.CreateSessionToken(op.ID, h.sessionSecret, h.sessionTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})
}

// generateOAuthState produces the random CSRF state string.
func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})
}

// verifyOAuthState matches the state cookie against the query parameter.
func verifyOAuthState(r *http.Request) bool {
	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == r.URL.Query().Get("state")
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}
