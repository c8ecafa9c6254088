package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"citadelle-cards-api/internal/cache"
	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/service"
	"citadelle-cards-api/pkg/apierror"
	"citadelle-cards-api/pkg/response"
	"citadelle-cards-api/pkg/uid"

	"golang.org/x/oauth2"
)

// discordEndpoint is the Discord OAuth2 endpoint pair.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

const (
	discordUserURL = "https://discord.com/api/users/@me"

	// stateTTL bounds how long a started login may take.
	stateTTL = 10 * time.Minute

	stateKeyPrefix = "oauthstate:"
)

// AuthHandler drives the Discord OAuth2 login flow and session lifecycle.
type AuthHandler struct {
	oauth    *oauth2.Config
	sessions *service.SessionService
	names    *service.Directory
	states   cache.Cache
}

// AuthHandlerConfig holds the dependencies for the auth handler.
type AuthHandlerConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Sessions     *service.SessionService
	Names        *service.Directory
	States       cache.Cache
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint:     discordEndpoint,
			Scopes:       []string{"identify"},
		},
		sessions: cfg.Sessions,
		names:    cfg.Names,
		states:   cfg.States,
	}
}

// discordUser is the subset of the Discord /users/@me payload we need.
type discordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

// Login handles GET /api/v1/auth/login - redirects to Discord.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uid.New()
	if err := h.states.Set(r.Context(), stateKeyPrefix+state, []byte("1"), stateTTL); err != nil {
		response.Error(w, apierror.InternalError("failed to start login"))
		return
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// LoginResponse is returned after a successful callback.
type LoginResponse struct {
	Token       string `json:"token"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Callback handles GET /api/v1/auth/callback - exchanges the code for an
// identity and issues a session token.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		response.Error(w, apierror.BadRequest("missing code or state"))
		return
	}

	if _, err := h.states.Get(r.Context(), stateKeyPrefix+state); err != nil {
		response.Error(w, apierror.Unauthorized("unknown or expired login state"))
		return
	}
	_ = h.states.Delete(r.Context(), stateKeyPrefix+state)

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		response.Error(w, apierror.Unauthorized("authorization code exchange failed"))
		return
	}

	user, err := h.fetchUser(r, token)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to fetch user identity"))
		return
	}

	displayName := user.GlobalName
	if displayName == "" {
		displayName = user.Username
	}
	h.names.Set(user.ID, displayName)

	sessionToken, err := h.sessions.Issue(r.Context(), model.SessionData{
		UserID:      user.ID,
		DisplayName: displayName,
		AvatarHash:  user.Avatar,
	})
	if err != nil {
		response.Error(w, apierror.InternalError("failed to create session"))
		return
	}

	response.OK(w, LoginResponse{
		Token:       sessionToken,
		ExpiresIn:   int(service.TokenTTL.Seconds()),
		UserID:      user.ID,
		DisplayName: displayName,
	})
}

// fetchUser loads the authenticated user's identity from Discord.
func (h *AuthHandler) fetchUser(r *http.Request, token *oauth2.Token) (*discordUser, error) {
	client := h.oauth.Client(r.Context(), token)
	resp, err := client.Get(discordUserURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity endpoint returned %d", resp.StatusCode)
	}

	var user discordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity response missing user id")
	}
	return &user, nil
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}
	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to revoke session"))
		return
	}
	response.OK(w, map[string]interface{}{"status": "logged_out"})
}
