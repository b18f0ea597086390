package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// The OAuth state and PKCE verifier ride in a short-lived httpOnly cookie
// between the /google/url and /google/callback requests.
const (
	oauthStateCookieName = "oauth_state"
	oauthStateTTLSeconds = 300
)

type oauthStateCookie struct {
	State        string `json:"state"`
	CodeVerifier string `json:"verifier"`
}

func (p oauthStateCookie) valid() bool {
	return p.State != "" && p.CodeVerifier != ""
}

func setOAuthStateCookie(c *gin.Context, state, codeVerifier string) {
	data, _ := json.Marshal(oauthStateCookie{State: state, CodeVerifier: codeVerifier})
	writeStateCookie(c, base64.RawURLEncoding.EncodeToString(data), oauthStateTTLSeconds)
}

func clearOAuthStateCookie(c *gin.Context) {
	writeStateCookie(c, "", -1)
}

func writeStateCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, value, maxAge, "/", "", c.Request.TLS != nil, true)
}

func readOAuthStateCookie(c *gin.Context) (oauthStateCookie, bool) {
	value, err := c.Cookie(oauthStateCookieName)
	if err != nil || value == "" {
		return oauthStateCookie{}, false
	}
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return oauthStateCookie{}, false
	}
	var payload oauthStateCookie
	if err := json.Unmarshal(data, &payload); err != nil || !payload.valid() {
		return oauthStateCookie{}, false
	}
	return payload, true
}
