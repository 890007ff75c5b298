package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"riselink-backend/config"
	"riselink-backend/models"
)

// OAuthHandler is the stateless OAuth relay: one route per provider, each
// exchanging an authorization code for a token and fetching user info.
// Nothing is stored; the client feeds the result into a profile upsert.
type OAuthHandler struct {
	discord        *oauth2.Config
	google         *oauth2.Config
	discordAPIBase string
	googleAPIBase  string
}

func NewOAuthHandler(cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		discord: &oauth2.Config{
			ClientID:     cfg.OAuth.Discord.ClientID,
			ClientSecret: cfg.OAuth.Discord.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURI,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://discord.com/api/oauth2/authorize",
				TokenURL:  "https://discord.com/api/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		google: &oauth2.Config{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		discordAPIBase: "https://discord.com/api",
		googleAPIBase:  "https://www.googleapis.com/",
	}
}

// DiscordCallback exchanges a Discord authorization code and returns the
// normalized user info
func (h *OAuthHandler) DiscordCallback(c *gin.Context) {
	code, ok := bindCode(c)
	if !ok {
		return
	}

	token, err := h.discord.Exchange(c, code)
	if err != nil {
		failAuth(c, "discord", "token exchange", err)
		return
	}

	resp, err := h.discord.Client(c, token).Get(h.discordAPIBase + "/users/@me")
	if err != nil {
		failAuth(c, "discord", "user fetch", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		failAuth(c, "discord", "user fetch", fmt.Errorf("status %d", resp.StatusCode))
		return
	}

	var user struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Email      string `json:"email"`
		Avatar     string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		failAuth(c, "discord", "user decode", err)
		return
	}

	name := user.Username
	if user.GlobalName != "" {
		name = user.GlobalName
	}

	var avatarURL *string
	if user.Avatar != "" {
		u := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", user.ID, user.Avatar)
		avatarURL = &u
	}

	c.JSON(http.StatusOK, models.OAuthUserInfo{
		Name:       name,
		Username:   user.Username,
		Email:      user.Email,
		AvatarURL:  avatarURL,
		Provider:   models.ProviderDiscord,
		ProviderID: user.ID,
	})
}

// GoogleCallback exchanges a Google authorization code and returns the
// normalized user info
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	code, ok := bindCode(c)
	if !ok {
		return
	}

	token, err := h.google.Exchange(c, code)
	if err != nil {
		failAuth(c, "google", "token exchange", err)
		return
	}

	svc, err := goauth2.NewService(c,
		option.WithHTTPClient(h.google.Client(c, token)),
		option.WithEndpoint(h.googleAPIBase),
	)
	if err != nil {
		failAuth(c, "google", "userinfo service", err)
		return
	}

	userInfo, err := svc.Userinfo.Get().Do()
	if err != nil {
		failAuth(c, "google", "user fetch", err)
		return
	}

	username := userInfo.Email
	if i := strings.Index(username, "@"); i >= 0 {
		username = username[:i]
	}

	var avatarURL *string
	if userInfo.Picture != "" {
		avatarURL = &userInfo.Picture
	}

	c.JSON(http.StatusOK, models.OAuthUserInfo{
		Name:       userInfo.Name,
		Username:   username,
		Email:      userInfo.Email,
		AvatarURL:  avatarURL,
		Provider:   models.ProviderGoogle,
		ProviderID: userInfo.Id,
	})
}

func bindCode(c *gin.Context) (string, bool) {
	var req models.OAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code is required"})
		return "", false
	}
	return req.Code, true
}

// failAuth logs the failure detail server-side and returns an opaque error
// so no provider response or secret leaks to the caller
func failAuth(c *gin.Context, provider, stage string, err error) {
	log.Printf("%s OAuth error during %s: %v", provider, stage, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
}
